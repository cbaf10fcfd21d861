package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/parser"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <id-prefix>",
	Short: "Export a match as a project JSON document",
	Long: `Write a stored match as a project document that 'import' reads back.
The output is zstd- or gzip-compressed when --out ends in .zst or .gz.
Without --out the JSON is written to stdout.

Example:
  tennis-grader export 3f2a9c --out match.json.zst`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := mustFindMatch(db, args[0])
	if err != nil {
		return err
	}
	if exportOut == "" {
		return parser.Encode(os.Stdout, m)
	}
	if err := parser.WriteFile(exportOut, m); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %d rallies to %s\n", len(m.Rallies), exportOut)
	return nil
}
