package main

import (
	"fmt"

	"github.com/spf13/cobra"

	hposconfig "github.com/aretw0/hpos-config"
	"github.com/aretw0/hpos-config/pkg/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the hpos-config schema",
	Long:  `Prints the expected shape of hpos-config.json as a YAML schema document, usable with "check --schema".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		compact, _ := cmd.Flags().GetBool("compact")
		if compact {
			fmt.Fprintln(cmd.OutOrStdout(), hposconfig.Schema.Describe())
			return nil
		}

		out, err := schema.MarshalYAML(hposconfig.Schema)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().Bool("compact", false, "Print the one-line form used in error messages")
}
