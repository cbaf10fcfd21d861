package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/parser"
	"github.com/pable/go-tennis-grader/internal/report"
	"github.com/pable/go-tennis-grader/internal/timeline"
	"github.com/pable/go-tennis-grader/pkg/logger"
)

var (
	addStart      string
	addEnd        string
	addResult     string
	addServer     string
	addWinnerShot int
	addLoserShot  int

	removeStart string
)

var addCmd = &cobra.Command{
	Use:   "add <id-prefix>",
	Short: "Append a rally to a match",
	Long: `Append one rally to the end of a match. The server is inferred from the
rallies already recorded unless --server is given.

Times are video offsets in milliseconds, optionally suffixed with the video
index: 93500 or 93500-1.

Results: Fault, PtServer, PtReturner, Let.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var removeCmd = &cobra.Command{
	Use:   "remove <id-prefix>",
	Short: "Remove the rally starting at a video time",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	addCmd.Flags().StringVar(&addStart, "start", "", "rally start time (ms[-video])")
	addCmd.Flags().StringVar(&addEnd, "end", "", "rally end time (ms[-video])")
	addCmd.Flags().StringVar(&addResult, "result", "", "Fault, PtServer, PtReturner or Let")
	addCmd.Flags().StringVar(&addServer, "server", "", "pin the server: me or oppo")
	addCmd.Flags().IntVar(&addWinnerShot, "winner-shot", 0, "quality of the winner's last shot, 1-5 (0 = unrated)")
	addCmd.Flags().IntVar(&addLoserShot, "loser-shot", 0, "quality of the loser's previous shot, 1-5 (0 = unrated)")
	_ = addCmd.MarkFlagRequired("start")
	_ = addCmd.MarkFlagRequired("end")
	_ = addCmd.MarkFlagRequired("result")

	removeCmd.Flags().StringVar(&removeStart, "start", "", "start time of the rally to remove (ms[-video])")
	_ = removeCmd.MarkFlagRequired("start")
}

// parseVideoTime parses "ms" or "ms-video".
func parseVideoTime(s string) (model.VideoTime, error) {
	msStr, videoStr, hasVideo := strings.Cut(strings.TrimSpace(s), "-")
	ms, err := strconv.ParseInt(msStr, 10, 64)
	if err != nil {
		return model.VideoTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	t := model.VideoTime{Ms: ms}
	if hasVideo {
		v, err := strconv.Atoi(videoStr)
		if err != nil {
			return model.VideoTime{}, fmt.Errorf("invalid video index in %q: %w", s, err)
		}
		t.VideoIndex = v
	}
	return t, nil
}

// parseResult accepts a result name case-insensitively.
func parseResult(s string) (model.RallyResult, error) {
	for _, r := range model.RallyResults {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown result %q (want Fault, PtServer, PtReturner or Let)", s)
}

// parseServer resolves --server; ok is false when it was not given.
func parseServer(s string) (isMyServe, ok bool, err error) {
	switch strings.ToLower(s) {
	case "":
		return false, false, nil
	case "me", "p1":
		return true, true, nil
	case "oppo", "opponent", "p2":
		return false, true, nil
	}
	return false, false, fmt.Errorf("unknown server %q (want me or oppo)", s)
}

func runAdd(cmd *cobra.Command, args []string) error {
	start, err := parseVideoTime(addStart)
	if err != nil {
		return err
	}
	end, err := parseVideoTime(addEnd)
	if err != nil {
		return err
	}
	result, err := parseResult(addResult)
	if err != nil {
		return err
	}
	pinned, hasServer, err := parseServer(addServer)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := mustFindMatch(db, args[0])
	if err != nil {
		return err
	}

	rally := model.Rally{
		StartTime: start,
		EndTime:   end,
		Result:    result,
		IsMyServe: timeline.InferIsMyServe(m.Rallies),
		Stat: model.RallyStat{
			WinnerLastShotQuality:    addWinnerShot,
			LoserPreviousShotQuality: addLoserShot,
		},
	}
	if hasServer {
		rally.IsMyServe = pinned
	}
	if err := parser.ValidateRally(rally); err != nil {
		return fmt.Errorf("invalid rally: %w", err)
	}

	if err := db.AppendRally(m.ID, rally); err != nil {
		return fmt.Errorf("append rally: %w", err)
	}
	logger.Named("add").Debug(cmd.Context(), "rally appended",
		logger.String("match", m.ID),
		logger.String("result", string(result)),
		logger.Bool("is_my_serve", rally.IsMyServe),
	)

	rallies := append(m.Rallies, rally)
	contexts := timeline.Build(rallies)
	fmt.Fprintf(os.Stdout, "Rally %d: %s\n", len(rallies), contexts[len(rallies)-1].ResultStr(m.MyName, m.OppoName))
	report.PrintNextPoint(os.Stdout, m, timeline.NextContext(rallies))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	start, err := parseVideoTime(removeStart)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := mustFindMatch(db, args[0])
	if err != nil {
		return err
	}
	removed, err := db.RemoveRallyAt(m.ID, start)
	if err != nil {
		return fmt.Errorf("remove rally: %w", err)
	}
	if !removed {
		fmt.Fprintf(os.Stdout, "No rally starts at %s, nothing removed.\n", start)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Removed rally at %s.\n", start)
	return nil
}
