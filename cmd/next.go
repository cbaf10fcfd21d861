package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/report"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

var nextCmd = &cobra.Command{
	Use:   "next <id-prefix>",
	Short: "Show the score and inferred server of the next point",
	Args:  cobra.ExactArgs(1),
	RunE:  runNext,
}

func runNext(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := mustFindMatch(db, args[0])
	if err != nil {
		return err
	}
	report.PrintNextPoint(os.Stdout, m, timeline.NextContext(m.Rallies))
	return nil
}
