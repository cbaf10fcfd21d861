package timeline

import (
	"testing"

	"github.com/pable/go-tennis-grader/internal/model"
)

func rally(result model.RallyResult, isMyServe bool) model.Rally {
	return model.Rally{Result: result, IsMyServe: isMyServe}
}

// loveGame returns the four rallies of a game held to love.
func loveGame(isMyServe bool) []model.Rally {
	out := make([]model.Rally, 4)
	for i := range out {
		out[i] = rally(model.ResultPtServer, isMyServe)
	}
	return out
}

// toSixAll holds serve twelve times, P1 serving first, ending at 6-6.
func toSixAll(t *testing.T) []model.Rally {
	t.Helper()
	var rallies []model.Rally
	for g := 0; g < 12; g++ {
		rallies = append(rallies, loveGame(g%2 == 0)...)
	}
	final := Build(rallies)[len(rallies)].ScoreBefore
	if final.P1.Games != 6 || final.P2.Games != 6 {
		t.Fatalf("setup: want 6-6, got %d-%d", final.P1.Games, final.P2.Games)
	}
	return rallies
}

func TestBuild_ScoreChain(t *testing.T) {
	rallies := []model.Rally{
		rally(model.ResultPtServer, true),
		rally(model.ResultFault, true),
		rally(model.ResultLet, true),
		rally(model.ResultFault, true),
		rally(model.ResultPtReturner, true),
	}
	contexts := Build(rallies)
	if len(contexts) != len(rallies)+1 {
		t.Fatalf("want %d contexts, got %d", len(rallies)+1, len(contexts))
	}
	if !contexts[0].ScoreBefore.Equal(model.Score{}) {
		t.Errorf("first context should start at zero, got %+v", contexts[0].ScoreBefore)
	}
	for i := 0; i < len(contexts)-1; i++ {
		if !contexts[i+1].ScoreBefore.Equal(contexts[i].ScoreAfter()) {
			t.Errorf("context %d: score does not chain from previous rally", i+1)
		}
	}
	trailing := contexts[len(contexts)-1]
	if trailing.HasRally() || trailing.Outcome() != model.OutcomeNone {
		t.Errorf("trailing context should have no rally, got %+v", trailing)
	}
	if !trailing.ScoreAfter().Equal(trailing.ScoreBefore) {
		t.Error("trailing context must not change the score")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	rallies := append(loveGame(true), rally(model.ResultFault, false), rally(model.ResultPtReturner, false))
	a, b := Build(rallies), Build(rallies)
	for i := range a {
		if !a[i].ScoreBefore.Equal(b[i].ScoreBefore) {
			t.Fatalf("context %d differs between builds", i)
		}
	}
	rallies[0].Result = model.ResultPtReturner
	if a[0].Rally.Result != model.ResultPtServer {
		t.Error("context shares rally storage with the input slice")
	}
}

func TestOutcomeQueries(t *testing.T) {
	ctx := RallyContext{
		ScoreBefore: model.Score{P1: model.PersonScore{Serve: 1}},
		Rally:       &model.Rally{Result: model.ResultFault, IsMyServe: true},
	}
	if !ctx.IsSecondServe() || !ctx.IsDoubleFault() {
		t.Fatal("fault on second serve should be a double fault")
	}
	if w, ok := ctx.Winner(); !ok || w != model.P2 {
		t.Errorf("double fault winner: want P2, got %v (%v)", w, ok)
	}
	if !ctx.WinnerIsOppo() || ctx.WinnerIsMe() {
		t.Error("WinnerIsOppo/WinnerIsMe disagree with Winner")
	}
	if got := ctx.ResultSymbolStr(); got != redHeart+" "+whiteBall {
		t.Errorf("ResultSymbolStr = %q", got)
	}

	let := RallyContext{Rally: &model.Rally{Result: model.ResultLet}}
	if _, ok := let.Winner(); ok {
		t.Error("a let has no winner")
	}
}

func TestResultStr(t *testing.T) {
	ctx := RallyContext{Rally: &model.Rally{Result: model.ResultPtReturner, IsMyServe: false}}
	if got := ctx.ResultStr("Ana", "Bea"); got != "Pt. Ana" {
		t.Errorf("ResultStr = %q, want %q", got, "Pt. Ana")
	}
	ctx.Rally.Result = model.ResultFault
	if got := ctx.ResultStr("Ana", "Bea"); got != "Fault" {
		t.Errorf("ResultStr = %q, want Fault", got)
	}
}

func TestGameScoreStr(t *testing.T) {
	newSet := RallyContext{ScoreBefore: model.Score{
		P1: model.PersonScore{GamesByCompletedSet: []int{6}},
		P2: model.PersonScore{GamesByCompletedSet: []int{4}},
	}}
	if got := newSet.GameScoreStr(); got != "[6-4] [0-0]" {
		t.Errorf("new set: got %q", got)
	}
	newGame := RallyContext{ScoreBefore: model.Score{P1: model.PersonScore{Games: 2}, P2: model.PersonScore{Games: 1}}}
	if got := newGame.GameScoreStr(); got != "[2-1]" {
		t.Errorf("new game: got %q", got)
	}
	mid := RallyContext{ScoreBefore: model.Score{P1: model.PersonScore{Points: 1}}}
	if got := mid.GameScoreStr(); got != "" {
		t.Errorf("mid-game: got %q", got)
	}
}

func TestPlot(t *testing.T) {
	tests := []struct {
		name      string
		p1, p2    model.PersonScore
		isMyServe bool
		want      Plot
		wantOK    bool
	}{
		{"no game point", model.PersonScore{Points: 2}, model.PersonScore{Points: 1}, true, Plot{}, false},
		{"hold point", model.PersonScore{Points: 3}, model.PersonScore{}, true, Plot{PlotGamePt, true}, true},
		{"break point", model.PersonScore{}, model.PersonScore{Points: 3}, true, Plot{PlotBreakPt, false}, true},
		{"set point on serve", model.PersonScore{Games: 5, Points: 3}, model.PersonScore{Games: 3}, true, Plot{PlotSetPt, true}, true},
		{"set point on return", model.PersonScore{Games: 3}, model.PersonScore{Games: 5, Points: 3}, true, Plot{"*" + PlotSetPt, false}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := RallyContext{
				ScoreBefore: model.Score{P1: tt.p1, P2: tt.p2},
				Rally:       &model.Rally{IsMyServe: tt.isMyServe},
			}
			got, ok := ctx.Plot()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Plot() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestPlotForNextRally(t *testing.T) {
	ctx := RallyContext{
		ScoreBefore: model.Score{P1: model.PersonScore{Points: 3}},
		Rally:       &model.Rally{Result: model.ResultPtServer, IsMyServe: true},
	}
	got, ok := ctx.PlotForNextRally()
	if !ok || got != (Plot{PlotConverted, true}) {
		t.Errorf("converted hold: got %+v, %v", got, ok)
	}
	ctx.Rally.Result = model.ResultPtReturner
	if _, ok := ctx.PlotForNextRally(); ok {
		t.Error("a saved game point is not a conversion")
	}
}

func TestIsMyServeGame_Tiebreak(t *testing.T) {
	rallies := toSixAll(t)
	// P1 serves first; servers then go P2, P2, P1, P1, P2, P2. P1 wins every point.
	servers := []bool{true, false, false, true, true, false, false}
	for _, mine := range servers {
		result := model.ResultPtServer
		if !mine {
			result = model.ResultPtReturner
		}
		rallies = append(rallies, rally(result, mine))
	}
	contexts := Build(rallies)
	for i := 48; i < len(rallies); i++ {
		if !contexts[i].IsMyServeGame() {
			t.Errorf("tiebreak point %d: want P1's service game", i-48)
		}
	}
}

func TestGroupByGame(t *testing.T) {
	rallies := append(loveGame(true), rally(model.ResultPtServer, false))
	games := GroupByGame(Build(rallies))
	if len(games) != 2 {
		t.Fatalf("want 2 games, got %d", len(games))
	}
	if len(games[0]) != 4 || len(games[1]) != 2 {
		t.Errorf("unexpected group sizes %d, %d", len(games[0]), len(games[1]))
	}

	withLet := []model.Rally{rally(model.ResultLet, true), rally(model.ResultPtServer, true)}
	if got := GroupByGame(Build(withLet)); len(got) != 1 {
		t.Errorf("let at 0-0 should not open a new game, got %d groups", len(got))
	}
}

func TestInferIsMyServe(t *testing.T) {
	tests := []struct {
		name    string
		rallies []model.Rally
		want    bool
	}{
		{"no rallies", nil, true},
		{"mid game", []model.Rally{rally(model.ResultPtServer, false)}, false},
		{"after first fault", []model.Rally{rally(model.ResultFault, false)}, false},
		{"after let", []model.Rally{rally(model.ResultLet, true)}, true},
		{"new game alternates", loveGame(true), false},
		{"game closed by double fault", append(
			[]model.Rally{
				rally(model.ResultPtReturner, false),
				rally(model.ResultPtReturner, false),
				rally(model.ResultPtReturner, false),
			},
			rally(model.ResultFault, false), rally(model.ResultFault, false)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferIsMyServe(tt.rallies); got != tt.want {
				t.Errorf("InferIsMyServe = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInferIsMyServe_Tiebreak(t *testing.T) {
	rallies := toSixAll(t)
	if !InferIsMyServe(rallies) {
		t.Fatal("P1 served the first game, so P1 should open the tiebreak")
	}

	servers := []bool{true, false, false, true, true, false, false}
	for i, mine := range servers {
		if got := InferIsMyServe(rallies); got != mine {
			t.Fatalf("tiebreak point %d: InferIsMyServe = %v, want %v", i, got, mine)
		}
		result := model.ResultPtServer
		if !mine {
			result = model.ResultPtReturner
		}
		rallies = append(rallies, rally(result, mine))
	}

	final := Build(rallies)[len(rallies)].ScoreBefore
	if len(final.P1.GamesByCompletedSet) != 1 || final.P1.GamesByCompletedSet[0] != 7 {
		t.Fatalf("tiebreak should close the set 7-6, got %+v", final.P1)
	}
	// The last tiebreak point was served by P2, but P1 opened the
	// tiebreak, so P2 serves the first game of the next set.
	if InferIsMyServe(rallies) {
		t.Error("after the tiebreak P2 should serve")
	}
}

func TestNextContext(t *testing.T) {
	rallies := append(loveGame(false), rally(model.ResultPtServer, true), rally(model.ResultPtServer, true), rally(model.ResultPtServer, true))
	next := NextContext(rallies)
	if next.Index != len(rallies) || !next.IsMyServe() {
		t.Fatalf("unexpected next context %+v", next)
	}
	plot, ok := next.Plot()
	if !ok || plot != (Plot{PlotGamePt, true}) {
		t.Errorf("40-0 on serve: got %+v, %v", plot, ok)
	}
}
