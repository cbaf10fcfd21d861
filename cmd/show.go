package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/aggregator"
	"github.com/pable/go-tennis-grader/internal/report"
)

var showAt int

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a match's score and statistics",
	Long: `Print the score, serve statistics, shot statistics and per-game
easiness of a match. With --at N the match is shown as it stood after its
first N rallies.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().IntVar(&showAt, "at", -1, "show the match after the first N rallies (default: all)")
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := findMatch(db, args[0])
	if err != nil {
		return err
	}
	if m == nil {
		fmt.Fprintf(os.Stderr, "No match found with ID prefix %q\n", args[0])
		return nil
	}

	at := showAt
	if at < 0 || at > len(m.Rallies) {
		at = len(m.Rallies)
	}
	contexts := aggregator.Build(m.Rallies)
	ctx := contexts[at]

	report.PrintMatchSummary(os.Stdout, m, ctx.ScoreBefore)
	if at < len(m.Rallies) {
		fmt.Fprintf(os.Stdout, "(after %d of %d rallies)\n\n", at, len(m.Rallies))
	}
	report.PrintServeStats(os.Stdout, m, ctx.StatBefore)
	fmt.Fprintln(os.Stdout)
	report.PrintShotStats(os.Stdout, m, ctx.StatBefore)
	fmt.Fprintln(os.Stdout)
	report.PrintEasinessByGame(os.Stdout, m, contexts[:at])
	return nil
}
