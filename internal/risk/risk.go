// Package risk classifies decided points by the manual shot-quality ratings
// of the rally: forcing wins, unforced errors and how much risk the winning
// shot carried relative to the ball it was hit from.
package risk

import (
	"strconv"

	"github.com/pable/go-tennis-grader/internal/timeline"
)

const (
	neutralQuality    = 3
	firstTossQuality  = 2
	secondTossQuality = 3
)

const (
	white  = "⬜"
	green  = "🟩"
	yellow = "🟨"
	red    = "🟥"
	ball   = "◯"
)

// decided reports whether the context's rally decided a point.
func decided(ctx timeline.RallyContext) bool {
	return ctx.Outcome().IsPoint()
}

// IsUnforcedError reports whether the point was given away: a double fault,
// or a winning shot rated neutral or worse.
func IsUnforcedError(ctx timeline.RallyContext) bool {
	if ctx.IsDoubleFault() {
		return true
	}
	if !decided(ctx) {
		return false
	}
	q := ctx.Rally.Stat.WinnerLastShotQuality
	return q >= 1 && q <= neutralQuality
}

// IsForcingWin reports whether the point was won with a shot rated above neutral.
func IsForcingWin(ctx timeline.RallyContext) bool {
	if !decided(ctx) || ctx.IsDoubleFault() {
		return false
	}
	return ctx.Rally.Stat.WinnerLastShotQuality > neutralQuality
}

// RiskLevel scores the winning shot against the ball it was hit from. An
// unrated previous shot is taken to be the serve toss, which is easier to
// attack on a second serve. Only meaningful for forcing wins.
func RiskLevel(ctx timeline.RallyContext) int {
	if ctx.Rally == nil {
		return 0
	}
	toss := firstTossQuality
	if ctx.IsSecondServe() {
		toss = secondTossQuality
	}
	prev := ctx.Rally.Stat.LoserPreviousShotQuality
	if prev == 0 {
		prev = toss
	}
	return ctx.Rally.Stat.WinnerLastShotQuality - (3 - (prev - 3))
}

// IsSafeForcingWin is a forcing win that did not overreach.
func IsSafeForcingWin(ctx timeline.RallyContext) bool {
	if !IsForcingWin(ctx) {
		return false
	}
	level := RiskLevel(ctx)
	return level >= 0 && level <= 1
}

type label struct {
	symbol, text string
}

// render places the symbol on the described player's side of the sheet:
// before the text for P1, after it for P2.
func (l label) render(forMe bool) string {
	if forMe {
		return l.symbol + " " + l.text
	}
	return l.text + " " + l.symbol
}

var riskLabels = map[int]label{
	4:  {red + red, "Steal+"},
	3:  {red, "Steal"},
	2:  {yellow, "Aggro+"},
	1:  {green, "Aggro"},
	0:  {green + green, "Patient"},
	-1: {white, "Passive"},
	-2: {white, "Passive+"},
	-3: {white, "Passive++"},
	-4: {white, "Passive+++"},
}

var freeLabels = map[int]label{
	1: {white + white + white, "Free++"},
	2: {white + white, "Free+"},
	3: {white, "Free"},
}

var doubleFaultLabel = label{ball, "Double"}

// RiskLevelLabel renders a risk level from one player's side. Levels outside
// the table render as the bare integer.
func RiskLevelLabel(level int, forMe bool) string {
	l, ok := riskLabels[level]
	if !ok {
		return strconv.Itoa(level)
	}
	return l.render(forMe)
}

// RiskLevelStr labels the winning shot of a decided point from the winner's
// side. Unrated shots render empty.
func RiskLevelStr(ctx timeline.RallyContext) string {
	if !decided(ctx) {
		return ""
	}
	forMe := ctx.WinnerIsMe()
	if ctx.IsDoubleFault() {
		return doubleFaultLabel.render(forMe)
	}
	q := ctx.Rally.Stat.WinnerLastShotQuality
	if q == 0 {
		return ""
	}
	if l, ok := freeLabels[q]; ok {
		return l.render(forMe)
	}
	return RiskLevelLabel(RiskLevel(ctx), forMe)
}

var shotRatings = map[int]label{
	5: {green + green, "Stretcher"},
	4: {green, "Rusher"},
	3: {white, "Neutral"},
	2: {red, "Weak"},
	1: {red + red, "Sitter"},
}

// ShotRatingLabel renders a 1-5 shot quality with its name. 0 renders empty.
func ShotRatingLabel(quality int, forMe bool) string {
	l, ok := shotRatings[quality]
	if !ok {
		return ""
	}
	return l.render(forMe)
}

// ShotRatingStr returns the symbol of either the winner's last shot or the
// loser's previous shot.
func ShotRatingStr(lookAtWinner bool, ctx timeline.RallyContext) string {
	if ctx.Rally == nil {
		return ""
	}
	q := ctx.Rally.Stat.LoserPreviousShotQuality
	if lookAtWinner {
		q = ctx.Rally.Stat.WinnerLastShotQuality
	}
	return shotRatings[q].symbol
}
