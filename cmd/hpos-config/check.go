package main

import (
	"fmt"
	"path/filepath"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/aretw0/hpos-config/internal/cli"
	"github.com/aretw0/hpos-config/pkg/registry"
	"github.com/aretw0/hpos-config/pkg/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check --schema schema.yaml [file]",
	Short: "Validate any JSON or YAML document against a schema document",
	Long: `Validates a data document against a YAML schema document.

Schema leaves are written as "!type string|int|float|bool|null" or
"!pred <name>"; untagged scalars must match exactly. Available predicates:
is_email, non_empty, base64. Data files ending in .yaml or .yml are read as
YAML, anything else as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemaPath, _ := cmd.Flags().GetString("schema")
		dump, _ := cmd.Flags().GetBool("dump")
		logger := loggerFor(cmd)

		node, err := cli.LoadSchema(schemaPath, registry.Default())
		if err != nil {
			return err
		}

		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		raw, source, err := cli.ReadDocument(path, cmd.InOrStdin())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		v := schema.NewValidator(schema.WithRoot(source + ": "))
		data, err := cli.DecodeData(v, path, raw)
		if err != nil {
			if _, ok := schema.KindOf(err); ok {
				fmt.Fprintln(out, err)
			} else {
				fmt.Fprintf(out, "%s: %v\n", source, err)
			}
			return errInvalid
		}
		if dump {
			fmt.Fprint(out, spew.Sdump(data))
		}

		if err := v.Validate(node, data); err != nil {
			kind, _ := schema.KindOf(err)
			logger.Debug("check failed", "schema", filepath.Base(schemaPath), "kind", kind, "error", err)
			fmt.Fprintln(out, err)
			return errInvalid
		}

		fmt.Fprintf(out, "%s matches %s\n", source, filepath.Base(schemaPath))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringP("schema", "s", "", "Path to the YAML schema document")
	checkCmd.Flags().Bool("dump", false, "Print the decoded data before validating")
	_ = checkCmd.MarkFlagRequired("schema")
}
