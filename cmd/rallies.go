package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/report"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

var (
	ralliesFrom int
	ralliesTo   int
)

// ralliesCmd prints the rally-by-rally score sheet of one match.
var ralliesCmd = &cobra.Command{
	Use:   "rallies <id-prefix>",
	Short: "Rally-by-rally score sheet for one match",
	Args:  cobra.ExactArgs(1),
	RunE:  runRallies,
}

func init() {
	ralliesCmd.Flags().IntVar(&ralliesFrom, "from", 1, "first rally to show (1-based)")
	ralliesCmd.Flags().IntVar(&ralliesTo, "to", 0, "last rally to show (0 = through the end)")
}

func runRallies(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := mustFindMatch(db, args[0])
	if err != nil {
		return err
	}
	if len(m.Rallies) == 0 {
		fmt.Fprintln(os.Stdout, "No rallies recorded yet.")
		return nil
	}
	contexts := timeline.Build(m.Rallies)
	report.PrintMatchSummary(os.Stdout, m, contexts[len(contexts)-1].ScoreBefore)
	report.PrintRallySheet(os.Stdout, m, contexts, ralliesFrom-1, ralliesTo)
	return nil
}
