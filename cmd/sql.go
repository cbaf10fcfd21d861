package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/report"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the match database",
	Long: `Run an arbitrary SQL query against the match database and print results as a table.

Schema overview:
  matches(id, scoring_system, my_name, oppo_name, urls JSON, owner, owner_email,
    created_at, last_edited_at)
  rallies(match_id, seq, start_ms, start_video, end_ms, end_video, result,
    is_my_serve, winner_shot, loser_shot)

result is one of Fault, PtServer, PtReturner, Let. is_my_serve is 0 or 1.
Example: SELECT result, COUNT(*) FROM rallies WHERE match_id LIKE '3f2a%' GROUP BY result`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("(no rows)")
		return nil
	}
	report.PrintQueryResult(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
