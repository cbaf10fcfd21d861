package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/model"
)

var (
	newMyName   string
	newOppoName string
	newScoring  string
	newURLs     []string
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an empty match to grade rally by rally",
	Args:  cobra.NoArgs,
	RunE:  runNew,
}

func init() {
	newCmd.Flags().StringVar(&newMyName, "me", "", "name of the graded player (default from config)")
	newCmd.Flags().StringVar(&newOppoName, "oppo", "", "name of the opponent (default from config)")
	newCmd.Flags().StringVar(&newScoring, "scoring", string(model.ScoringProSet6Game), "scoring system label")
	newCmd.Flags().StringSliceVar(&newURLs, "url", nil, "source video URL, repeatable")
}

func runNew(cmd *cobra.Command, args []string) error {
	scoring := model.ScoringSystem(newScoring)
	if !scoring.Valid() {
		return fmt.Errorf("unknown scoring system %q", newScoring)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	m := &model.MatchData{
		ID:            uuid.New().String(),
		ScoringSystem: scoring,
		MyName:        newMyName,
		OppoName:      newOppoName,
		URLs:          newURLs,
		CreatedAt:     now,
		LastEditedAt:  now,
	}
	if m.MyName == "" {
		m.MyName = cfg.DefaultMyName
	}
	if m.OppoName == "" {
		m.OppoName = cfg.DefaultOppoName
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.InsertMatch(m); err != nil {
		return fmt.Errorf("insert match: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Created match %s: %s vs %s\n", m.ID, m.MyName, m.OppoName)
	return nil
}
