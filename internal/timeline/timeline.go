// Package timeline folds an ordered rally list into per-point contexts: the
// score before each rally, plus the boundary and annotation queries the
// score sheet is drawn from.
//
// Contexts are always rebuilt from the full rally list. Nothing here caches
// or mutates a previous result.
package timeline

import (
	"fmt"
	"strings"

	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/score"
)

// RallyContext is one point of the match as seen before its rally is played.
// The trailing context of a timeline has a nil Rally: it is the score before
// the next, not yet recorded, point.
type RallyContext struct {
	Index       int
	Rally       *model.Rally
	ScoreBefore model.Score
	StatBefore  model.MatchStat
}

// Build returns len(rallies)+1 contexts. The input slice is not retained.
func Build(rallies []model.Rally) []RallyContext {
	contexts := make([]RallyContext, 0, len(rallies)+1)
	var current model.Score
	for i := range rallies {
		r := rallies[i]
		ctx := RallyContext{Index: i, Rally: &r, ScoreBefore: current}
		contexts = append(contexts, ctx)
		current = ctx.ScoreAfter()
	}
	contexts = append(contexts, RallyContext{Index: len(rallies), ScoreBefore: current})
	return contexts
}

// HasRally is false only for the trailing context.
func (c RallyContext) HasRally() bool {
	return c.Rally != nil
}

// IsMyServe reports whether P1 served this rally. False for the trailing context.
func (c RallyContext) IsMyServe() bool {
	return c.Rally != nil && c.Rally.IsMyServe
}

// Server returns the player serving this rally.
func (c RallyContext) Server() model.Player {
	if c.IsMyServe() {
		return model.P1
	}
	return model.P2
}

// Outcome classifies the rally against the serve state before it.
func (c RallyContext) Outcome() model.PointOutcome {
	if c.Rally == nil {
		return model.OutcomeNone
	}
	return model.ClassifyOutcome(c.Rally.Result, c.IsSecondServe())
}

// ScoreAfter returns the score once this context's rally is applied.
func (c RallyContext) ScoreAfter() model.Score {
	if c.Rally == nil {
		return c.ScoreBefore.Clone()
	}
	return score.Apply(c.ScoreBefore, *c.Rally)
}

func (c RallyContext) IsSecondServe() bool {
	return c.ScoreBefore.P1.Serve == 1 || c.ScoreBefore.P2.Serve == 1
}

func (c RallyContext) IsDoubleFault() bool {
	return c.Outcome() == model.OutcomeDoubleFault
}

// Winner returns the player who won the point, if the rally decided one.
func (c RallyContext) Winner() (model.Player, bool) {
	o := c.Outcome()
	switch {
	case o.ServerWon():
		return c.Server(), true
	case o.ReturnerWon():
		return c.Server().Other(), true
	default:
		return 0, false
	}
}

func (c RallyContext) WinnerIsMe() bool {
	w, ok := c.Winner()
	return ok && w == model.P1
}

func (c RallyContext) WinnerIsOppo() bool {
	w, ok := c.Winner()
	return ok && w == model.P2
}

// IsNewGame reports whether no point has been played in the current game.
func (c RallyContext) IsNewGame() bool {
	s := c.ScoreBefore
	return s.P1.Points == 0 && s.P1.Serve == 0 && s.P2.Points == 0 && s.P2.Serve == 0
}

// IsNewSet reports whether no point has been played in the current set.
func (c RallyContext) IsNewSet() bool {
	if !c.IsNewGame() {
		return false
	}
	return c.ScoreBefore.P1.Games == 0 && c.ScoreBefore.P2.Games == 0
}

// GameScoreStr labels game and set boundaries, e.g. "[6-4] [0-0]". It is
// empty mid-game.
func (c RallyContext) GameScoreStr() string {
	var parts []string
	s := c.ScoreBefore
	if c.IsNewSet() {
		for i, g := range s.P1.GamesByCompletedSet {
			p2 := 0
			if i < len(s.P2.GamesByCompletedSet) {
				p2 = s.P2.GamesByCompletedSet[i]
			}
			parts = append(parts, fmt.Sprintf("[%d-%d]", g, p2))
		}
	}
	if c.IsNewGame() {
		parts = append(parts, fmt.Sprintf("[%d-%d]", s.P1.Games, s.P2.Games))
	}
	return strings.Join(parts, " ")
}

// IsMyServeGame reports whether the game in progress is P1's service game.
// In a tiebreak it is the game of whoever served the first tiebreak point:
// that player serves point 0, then serve alternates every two points, so
// points with n%4 in {1,2} are served by the other player.
func (c RallyContext) IsMyServeGame() bool {
	s := c.ScoreBefore
	if !score.IsTieBreakTime(s.P1, s.P2) {
		return c.IsMyServe()
	}
	switch (s.P1.Points + s.P2.Points) % 4 {
	case 1, 2:
		return !c.IsMyServe()
	default:
		return c.IsMyServe()
	}
}

// ResultStr names the point winner, e.g. "Pt. Alice".
func (c RallyContext) ResultStr(myName, oppoName string) string {
	if c.Rally == nil {
		return ""
	}
	server, returner := oppoName, myName
	if c.Rally.IsMyServe {
		server, returner = myName, oppoName
	}
	switch c.Rally.Result {
	case model.ResultPtServer:
		return "Pt. " + server
	case model.ResultPtReturner:
		return "Pt. " + returner
	}
	return string(c.Rally.Result)
}

const (
	whiteBall  = "◯"
	greenBall  = "🟢"
	yellowBall = "🟡"
	redBall    = "🔴"
	redHeart   = "🟥"
)

// ResultSymbolStr draws the result as two columns, P1 on the left.
func (c RallyContext) ResultSymbolStr() string {
	if c.Rally == nil {
		return ""
	}
	var mark string
	switch c.Outcome() {
	case model.OutcomeServerWins:
		mark = greenBall
	case model.OutcomeReturnerWins:
		mark = redBall
	case model.OutcomeDoubleFault:
		mark = redHeart
	case model.OutcomeFirstServeFault:
		mark = yellowBall
	default:
		return string(c.Rally.Result)
	}
	if c.Rally.IsMyServe {
		return mark + " " + whiteBall
	}
	return whiteBall + " " + mark
}

// Plot is a score-sheet annotation attached to one player.
type Plot struct {
	Text     string
	IsMyPlot bool
}

const (
	PlotGamePt    = "Game Pt"
	PlotSetPt     = "Set Pt"
	PlotBreakPt   = "Break pt"
	PlotConverted = "Converted"
)

// Plot labels a game point, break point or set point for this context's
// score. A set point that is also a break point is prefixed with "*".
func (c RallyContext) Plot() (Plot, bool) {
	s := c.ScoreBefore
	myGamePt := score.IsGamePoint(s.P1, s.P2)
	oppoGamePt := score.IsGamePoint(s.P2, s.P1)
	if !myGamePt && !oppoGamePt {
		return Plot{}, false
	}
	isSetPt := score.IsSetPoint(s.P1, s.P2) || score.IsSetPoint(s.P2, s.P1)
	myServeGame := c.IsMyServeGame()
	isBreakPt := (myGamePt && !myServeGame) || (oppoGamePt && myServeGame)

	text := PlotGamePt
	switch {
	case isSetPt && isBreakPt:
		text = "*" + PlotSetPt
	case isSetPt:
		text = PlotSetPt
	case isBreakPt:
		text = PlotBreakPt
	}
	return Plot{Text: text, IsMyPlot: myGamePt}, true
}

// PlotForNextRally reports whether this rally converted a game point for
// the player who held it. The score sheet shows it on the following row.
func (c RallyContext) PlotForNextRally() (Plot, bool) {
	s := c.ScoreBefore
	myConversion := score.IsGamePoint(s.P1, s.P2) && c.WinnerIsMe()
	oppoConversion := score.IsGamePoint(s.P2, s.P1) && c.WinnerIsOppo()
	if !myConversion && !oppoConversion {
		return Plot{}, false
	}
	return Plot{Text: PlotConverted, IsMyPlot: myConversion}, true
}

// GroupByGame splits contexts at every game boundary, keeping order. A let
// replayed at 0-0 stays in the game it was played in.
func GroupByGame(contexts []RallyContext) [][]RallyContext {
	var games [][]RallyContext
	var current []RallyContext
	for _, c := range contexts {
		afterLet := len(current) > 0 && current[len(current)-1].Outcome() == model.OutcomeLet
		if c.IsNewGame() && len(current) > 0 && !afterLet {
			games = append(games, current)
			current = nil
		}
		current = append(current, c)
	}
	if len(current) > 0 {
		games = append(games, current)
	}
	return games
}
