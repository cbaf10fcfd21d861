package risk

import (
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

// Level grades how hard a point was to win.
type Level string

const (
	LevelNone   Level = "None"
	LevelEasy   Level = "Easy"
	LevelMedium Level = "Medium"
	LevelHard   Level = "Hard"
)

const (
	easyWin   = "🥬"
	mediumWin = "🍋"
	hardWin   = "🌶️"
)

// Easiness grades a point from one player's side. Points the player did not
// win are LevelNone.
func Easiness(ctx timeline.RallyContext, forMe bool) Level {
	w, ok := ctx.Winner()
	if !ok || (w == model.P1) != forMe {
		return LevelNone
	}
	switch {
	case ctx.IsDoubleFault():
		return LevelEasy
	case IsSafeForcingWin(ctx):
		return LevelMedium
	case IsForcingWin(ctx):
		return LevelHard
	default:
		return LevelEasy
	}
}

// EasinessStr is the score-sheet symbol for Easiness. Second-serve points
// carry one "*", double faults two.
func EasinessStr(ctx timeline.RallyContext, forMe bool) string {
	var sym string
	switch Easiness(ctx, forMe) {
	case LevelNone:
		return ""
	case LevelMedium:
		sym = mediumWin
	case LevelHard:
		sym = hardWin
	default:
		sym = easyWin
	}
	switch {
	case ctx.IsDoubleFault():
		return sym + "**"
	case ctx.IsSecondServe():
		return sym + "*"
	}
	return sym
}

// DecidedByGame groups contexts by game, keeping only rallies that decided a point.
func DecidedByGame(contexts []timeline.RallyContext) [][]timeline.RallyContext {
	var out [][]timeline.RallyContext
	for _, game := range timeline.GroupByGame(contexts) {
		var pts []timeline.RallyContext
		for _, c := range game {
			if _, ok := c.Winner(); ok {
				pts = append(pts, c)
			}
		}
		out = append(out, pts)
	}
	return out
}
