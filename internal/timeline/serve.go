package timeline

import (
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/score"
)

// InferIsMyServe predicts whether P1 serves the next, unrecorded point.
// With no rallies it guesses P1.
func InferIsMyServe(rallies []model.Rally) bool {
	if len(rallies) == 0 {
		return true
	}
	last := rallies[len(rallies)-1]
	contexts := Build(rallies)
	next := contexts[len(contexts)-1]
	final := next.ScoreBefore

	// A pending second serve or a replayed let keeps the same server.
	if next.IsSecondServe() || last.Result == model.ResultLet || !last.Result.Valid() {
		return last.IsMyServe
	}

	if score.IsTieBreakTime(final.P1, final.P2) {
		played := final.P1.Points + final.P2.Points
		if played == 0 || played%2 == 1 {
			return !last.IsMyServe
		}
		return last.IsMyServe
	}

	if !next.IsNewGame() {
		return last.IsMyServe
	}

	// The last rally closed a game. After a tiebreak, whoever received
	// first in it serves the new set.
	closing := contexts[len(contexts)-2]
	if !score.IsTieBreakTime(closing.ScoreBefore.P1, closing.ScoreBefore.P2) {
		return !last.IsMyServe
	}
	return !closing.IsMyServeGame()
}

// NextContext returns the trailing context of rallies with the inferred
// server of the next point filled in as a placeholder rally, so the score
// sheet can label the upcoming point. The placeholder has no result.
func NextContext(rallies []model.Rally) RallyContext {
	contexts := Build(rallies)
	next := contexts[len(contexts)-1]
	next.Rally = &model.Rally{IsMyServe: InferIsMyServe(rallies)}
	return next
}
