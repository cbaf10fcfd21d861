// Package aggregator folds a rally timeline into cumulative match statistics,
// keeping a snapshot of the counters as they stood before every point so any
// position in the match can be inspected without replaying it.
package aggregator

import (
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/risk"
	"github.com/pable/go-tennis-grader/internal/score"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

// Annotate returns a copy of contexts in which StatBefore holds the match
// counters before that context's rally. The input is not modified.
func Annotate(contexts []timeline.RallyContext) []timeline.RallyContext {
	out := make([]timeline.RallyContext, len(contexts))
	var stat model.MatchStat
	for i, ctx := range contexts {
		ctx.StatBefore = stat
		out[i] = ctx
		stat = Step(stat, ctx)
	}
	return out
}

// Build is timeline.Build followed by Annotate.
func Build(rallies []model.Rally) []timeline.RallyContext {
	return Annotate(timeline.Build(rallies))
}

// StatAt returns the counters after the first n rallies. n is clamped to
// [0, len(rallies)].
func StatAt(rallies []model.Rally, n int) model.MatchStat {
	if n < 0 {
		n = 0
	}
	if n > len(rallies) {
		n = len(rallies)
	}
	return Build(rallies[:n])[n].StatBefore
}

// Step applies one context's rally to stat and returns the result. Lets and
// the trailing context leave stat unchanged.
func Step(stat model.MatchStat, ctx timeline.RallyContext) model.MatchStat {
	outcome := ctx.Outcome()
	if outcome == model.OutcomeNone || outcome == model.OutcomeLet {
		return stat
	}

	// ---- Game and set points played, counted once per decided point. ----

	if outcome.IsPoint() {
		countBigPoints(&stat.P1Stats, ctx.ScoreBefore.P1, ctx.ScoreBefore.P2)
		countBigPoints(&stat.P2Stats, ctx.ScoreBefore.P2, ctx.ScoreBefore.P1)
	}

	// ---- Serve counters, attributed to the server. ----

	server := &stat.P2Stats
	if ctx.IsMyServe() {
		server = &stat.P1Stats
	}
	forcing := risk.IsForcingWin(ctx)
	unforced := risk.IsUnforcedError(ctx)

	if ctx.IsSecondServe() {
		server.NumSecondServes++
		if outcome == model.OutcomeDoubleFault {
			server.NumSecondServeUnforcedErrors++
			return stat
		}
		server.NumSecondServesMade++
		switch {
		case outcome.ServerWon():
			server.NumSecondServesWon++
			if forcing {
				server.NumSecondServeForcingWins++
			}
			if unforced {
				server.NumSecondServeUnforcedErrorsByReturner++
			}
		case outcome.ReturnerWon():
			if forcing {
				server.NumSecondServeForcingWinsByReturner++
			}
			if unforced {
				server.NumSecondServeUnforcedErrors++
			}
		}
		return stat
	}

	server.NumFirstServes++
	if outcome == model.OutcomeFirstServeFault {
		return stat
	}
	server.NumFirstServesMade++
	switch {
	case outcome.ServerWon():
		server.NumFirstServesWon++
		if forcing {
			server.NumFirstServeForcingWins++
		}
		if unforced {
			server.NumFirstServeUnforcedErrorsByReturner++
		}
	case outcome.ReturnerWon():
		if forcing {
			server.NumFirstServeForcingWinsByReturner++
		}
		if unforced {
			server.NumFirstServeUnforcedErrors++
		}
	}
	return stat
}

func countBigPoints(stat *model.PlayerStat, self, other model.PersonScore) {
	if !score.IsGamePoint(self, other) {
		return
	}
	stat.NumGamePts++
	if score.IsSetPoint(self, other) {
		stat.NumSetPts++
	}
}
