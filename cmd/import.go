package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/aggregator"
	"github.com/pable/go-tennis-grader/internal/parser"
	"github.com/pable/go-tennis-grader/internal/report"
	"github.com/pable/go-tennis-grader/pkg/logger"
)

var importReplace bool

var importCmd = &cobra.Command{
	Use:   "import <match.json|match.json.zst|match.json.gz>",
	Short: "Import a graded match file into the database",
	Long: `Load a match file (a bare matchData object or a full project document),
validate every rally and store it. Re-importing the same file is a no-op
unless --replace is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "overwrite a match already stored under the same ID")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	log := logger.Named("import")

	m, err := parser.ParseFile(path)
	if err != nil {
		var verr *parser.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				fmt.Fprintf(os.Stderr, "  %s\n", fe)
			}
		}
		log.Warn(cmd.Context(), "rejected match file", logger.String("path", path), logger.Error(err))
		return fmt.Errorf("import %s: %w", path, err)
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := db.MatchExists(m.ID)
	if err != nil {
		return fmt.Errorf("check match: %w", err)
	}
	if exists && !importReplace {
		fmt.Fprintf(os.Stdout, "Match %s already stored, showing stored copy. Use --replace to overwrite.\n", m.ID[:min(12, len(m.ID))])
		stored, err := db.GetMatch(m.ID)
		if err != nil {
			return fmt.Errorf("get match: %w", err)
		}
		m = stored
	} else {
		if err := db.InsertMatch(m); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		log.Info(cmd.Context(), "match imported",
			logger.String("id", m.ID),
			logger.String("path", path),
			logger.Int("rallies", len(m.Rallies)),
		)
	}

	contexts := aggregator.Build(m.Rallies)
	last := contexts[len(contexts)-1]
	report.PrintMatchSummary(os.Stdout, m, last.ScoreBefore)
	report.PrintServeStats(os.Stdout, m, last.StatBefore)
	return nil
}
