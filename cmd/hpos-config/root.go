package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/hpos-config/internal/logging"
)

// errInvalid marks a command that ran fine but found the document invalid.
// The report has already been printed, so Execute only sets the exit code.
var errInvalid = errors.New("document is invalid")

var rootCmd = &cobra.Command{
	Use:   "hpos-config",
	Short: "hpos-config validates HoloPort configuration documents",
	Long: `hpos-config checks hpos-config.json files against the expected schema,
validates arbitrary documents against YAML schema documents, and serves the
same check over HTTP and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

func loggerFor(cmd *cobra.Command) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return logging.ForDebug(debug)
}
