package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/risk"
	"github.com/pable/go-tennis-grader/internal/score"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// pct renders a ratio as "NN% (n/d)", or "—" with no data.
func pct(r model.Ratio) string {
	s := r.String()
	if s == "" {
		return "—"
	}
	return fmt.Sprintf("%s (%d/%d)", s, r.Num, r.Den)
}

// PrintMatchSummary prints a one-line summary header for the match at the given score.
func PrintMatchSummary(w io.Writer, m *model.MatchData, s model.Score) {
	sets := score.SetsStr(s)
	if sets == "" {
		sets = "—"
	}
	fmt.Fprintf(w, "\n%s vs %s  |  %s  |  Sets: %s  |  Games: %s  |  Points: %s  |  Rallies: %d  |  ID: %s\n\n",
		m.MyName, m.OppoName, m.ScoringSystem, sets, score.GamesStr(s), score.PointsStr(s),
		len(m.Rallies), shortID(m.ID))
}

// PrintMatchList prints one row per stored match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("ID", "ME", "OPPONENT", "SCORING", "RALLIES", "CREATED", "EDITED")
	for _, s := range matches {
		table.Append(
			shortID(s.ID),
			s.MyName,
			s.OppoName,
			string(s.ScoringSystem),
			strconv.Itoa(s.NumRallies),
			s.CreatedAt,
			s.LastEditedAt,
		)
	}
	table.Render()
}

// PrintRallySheet prints the score sheet for contexts[from:to]. Contexts
// without a rally are skipped.
func PrintRallySheet(w io.Writer, m *model.MatchData, contexts []timeline.RallyContext, from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(contexts) || to <= 0 {
		to = len(contexts)
	}

	table := newTable(w)
	table.Header("#", "GAMES", "POINTS", "SERVER", "RESULT", "SYM", "SECS",
		"P1 PLOT", "P2 PLOT", "RISK", "W SHOT", "L SHOT")

	for i := from; i < to; i++ {
		ctx := contexts[i]
		if !ctx.HasRally() {
			continue
		}
		var p1Plot, p2Plot []string
		if i > 0 {
			if plot, ok := contexts[i-1].PlotForNextRally(); ok {
				addPlot(&p1Plot, &p2Plot, plot)
			}
		}
		if plot, ok := ctx.Plot(); ok {
			addPlot(&p1Plot, &p2Plot, plot)
		}
		serve := "1st"
		if ctx.IsSecondServe() {
			serve = "2nd"
		}
		table.Append(
			strconv.Itoa(i+1),
			ctx.GameScoreStr(),
			score.PointsStr(ctx.ScoreBefore),
			fmt.Sprintf("%s (%s)", m.Name(ctx.Server()), serve),
			ctx.ResultStr(m.MyName, m.OppoName),
			ctx.ResultSymbolStr(),
			ctx.Rally.DurationStr(),
			strings.Join(p1Plot, ", "),
			strings.Join(p2Plot, ", "),
			risk.RiskLevelStr(ctx),
			risk.ShotRatingStr(true, ctx),
			risk.ShotRatingStr(false, ctx),
		)
	}
	table.Render()
}

func addPlot(p1, p2 *[]string, plot timeline.Plot) {
	if plot.IsMyPlot {
		*p1 = append(*p1, plot.Text)
		return
	}
	*p2 = append(*p2, plot.Text)
}

// PrintServeStats prints serve and point-winning counters for both players.
func PrintServeStats(w io.Writer, m *model.MatchData, stat model.MatchStat) {
	p1, p2 := stat.P1Stats, stat.P2Stats
	table := newTable(w)
	table.Header("SERVE", m.MyName, m.OppoName)
	rows := []struct {
		label  string
		mine   string
		theirs string
	}{
		{"1st serve in", pct(p1.FirstServePct()), pct(p2.FirstServePct())},
		{"2nd serve in", pct(p1.SecondServePct()), pct(p2.SecondServePct())},
		{"Serves in", pct(p1.ServePct()), pct(p2.ServePct())},
		{"Double faults", strconv.Itoa(p1.NumDoubleFaults()), strconv.Itoa(p2.NumDoubleFaults())},
		{"1st serve pts won", pct(p1.FirstServePointsWonPct()), pct(p2.FirstServePointsWonPct())},
		{"2nd serve pts won", pct(p1.SecondServePointsWonPct()), pct(p2.SecondServePointsWonPct())},
		{"Serve pts won", pct(p1.ServePointsWonPct()), pct(p2.ServePointsWonPct())},
		{"Total pts won", pct(stat.WinningPct(model.P1)), pct(stat.WinningPct(model.P2))},
		{"Game pts", strconv.Itoa(p1.NumGamePts), strconv.Itoa(p2.NumGamePts)},
		{"Set pts", strconv.Itoa(p1.NumSetPts), strconv.Itoa(p2.NumSetPts)},
	}
	for _, r := range rows {
		table.Append(r.label, r.mine, r.theirs)
	}
	table.Render()
}

// PrintShotStats prints forcing-win and unforced-error rates by serve and return.
func PrintShotStats(w io.Writer, m *model.MatchData, stat model.MatchStat) {
	table := newTable(w)
	table.Header("SHOTS", m.MyName, m.OppoName)
	type getter func(model.Player) model.Ratio
	rows := []struct {
		label string
		get   getter
	}{
		{"Forcing wins", stat.ForcingWinPct},
		{"  on serve", stat.ForcingWinPctOnServe},
		{"  on 1st serve", stat.ForcingWinPctOnFirstServe},
		{"  on 2nd serve", stat.ForcingWinPctOnSecondServe},
		{"  on return", stat.ForcingWinPctOnReturn},
		{"  on 1st return", stat.ForcingWinPctOnFirstReturn},
		{"  on 2nd return", stat.ForcingWinPctOnSecondReturn},
		{"Unforced errors", stat.UnforcedErrorPct},
		{"  on serve", stat.UnforcedErrorPctOnServe},
		{"  on 1st serve", stat.UnforcedErrorPctOnFirstServe},
		{"  on 2nd serve", stat.UnforcedErrorPctOnSecondServe},
		{"  on return", stat.UnforcedErrorPctOnReturn},
		{"  on 1st return", stat.UnforcedErrorPctOnFirstReturn},
		{"  on 2nd return", stat.UnforcedErrorPctOnSecondReturn},
	}
	for _, r := range rows {
		table.Append(r.label, pct(r.get(model.P1)), pct(r.get(model.P2)))
	}
	table.Render()
}

// PrintEasinessByGame prints one row per game with the easiness symbol of
// every point each player won.
func PrintEasinessByGame(w io.Writer, m *model.MatchData, contexts []timeline.RallyContext) {
	table := newTable(w)
	table.Header("GAME", "SERVER", m.MyName, m.OppoName)
	for _, game := range risk.DecidedByGame(contexts) {
		if len(game) == 0 {
			continue
		}
		first := game[0]
		var mine, theirs []string
		for _, ctx := range game {
			if s := risk.EasinessStr(ctx, true); s != "" {
				mine = append(mine, s)
			}
			if s := risk.EasinessStr(ctx, false); s != "" {
				theirs = append(theirs, s)
			}
		}
		server := m.Name(first.Server())
		if score.IsTieBreakTime(first.ScoreBefore.P1, first.ScoreBefore.P2) {
			server = "TB"
		}
		table.Append(
			score.GamesStr(first.ScoreBefore),
			server,
			strings.Join(mine, " "),
			strings.Join(theirs, " "),
		)
	}
	table.Render()
}

// PrintNextPoint describes the upcoming point: score, server and any plot.
func PrintNextPoint(w io.Writer, m *model.MatchData, next timeline.RallyContext) {
	serve := "first serve"
	if next.IsSecondServe() {
		serve = "second serve"
	}
	fmt.Fprintf(w, "Next point: %s %s  |  %s to serve (%s)",
		score.GamesStr(next.ScoreBefore), score.PointsStr(next.ScoreBefore), m.Name(next.Server()), serve)
	if plot, ok := next.Plot(); ok {
		who := m.OppoName
		if plot.IsMyPlot {
			who = m.MyName
		}
		fmt.Fprintf(w, "  |  %s for %s", plot.Text, who)
	}
	fmt.Fprintln(w)
}

// PrintQueryResult renders raw query output as a table.
func PrintQueryResult(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}
