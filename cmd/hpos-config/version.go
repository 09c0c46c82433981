package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	hposconfig "github.com/aretw0/hpos-config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of hpos-config",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hpos-config version %s\n", strings.TrimSpace(hposconfig.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
