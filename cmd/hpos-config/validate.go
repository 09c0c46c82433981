package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	hposconfig "github.com/aretw0/hpos-config"
	"github.com/aretw0/hpos-config/internal/cli"
	"github.com/aretw0/hpos-config/internal/presentation/tui"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check an hpos-config.json file",
	Long: `Checks a HoloPort configuration file against the expected schema.
Reads stdin when the file is omitted or "-". Exits 1 when the file is invalid.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOut, _ := cmd.Flags().GetBool("json")

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		doc, source, err := cli.ReadDocument(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		svc := hposconfig.NewService(hposconfig.WithLogger(loggerFor(cmd)))
		report, err := svc.Check(cmd.Context(), doc)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOut {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printer := tui.NewPlainPrinter(out)
			if f, ok := out.(*os.File); ok {
				printer = tui.NewPrinter(f)
			}
			if err := printer.PrintReport(report, source); err != nil {
				return err
			}
		}

		if !report.Valid {
			return errInvalid
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("json", false, "Print the report as JSON")
}
