package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kiso-design/intake-cli/internal/catalog"
	"github.com/kiso-design/intake-cli/internal/extract"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [text]",
	Short: "Run pattern extraction on one message and print the fields",
	Long:  "Extracts project fields from the given text, or from stdin when no argument is passed. Useful for tuning the field catalog.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var text string
		if len(args) == 1 {
			text = args[0]
		} else {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return eris.Wrap(err, "read stdin")
			}
			text = string(raw)
		}

		cat, err := catalog.LoadOrDefault(cfg.Catalog.FieldsPath, cfg.Catalog.PhasesPath)
		if err != nil {
			return eris.Wrap(err, "load field catalog")
		}

		fields := extract.New(cat).Extract(text)

		if extractJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(fields)
		}

		if len(fields) == 0 {
			fmt.Println("no fields extracted")
			return nil
		}
		for _, f := range fields {
			value := f.Value
			if value == "" {
				value = "(keyword evidence only)"
			}
			fmt.Printf("%-24s %-10s %.2f  %s\n", f.Key, f.Status, f.Confidence, value)
		}
		return nil
	},
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print fields as JSON")
	rootCmd.AddCommand(extractCmd)
}
