// Package score holds the tennis score transition function and the
// game/set/tiebreak predicates it is built on.
package score

import (
	"fmt"

	"github.com/pable/go-tennis-grader/internal/model"
)

const (
	gameDeuceThreshold     = 3
	tiebreakDeuceThreshold = 6
	tiebreakGames          = 6
	setPointGames          = 5
)

// IsTieBreakTime reports whether the current set is in its 6-6 tiebreak.
func IsTieBreakTime(a, b model.PersonScore) bool {
	return a.Games == tiebreakGames && b.Games == tiebreakGames
}

// DeuceThreshold is the point count a player must reach, with a lead, to be
// on game point: 3 (40) in a normal game, 6 in a tiebreak.
func DeuceThreshold(a, b model.PersonScore) int {
	if IsTieBreakTime(a, b) {
		return tiebreakDeuceThreshold
	}
	return gameDeuceThreshold
}

// IsGamePoint reports whether a wins the game by winning the next point.
func IsGamePoint(a, b model.PersonScore) bool {
	return a.Points >= DeuceThreshold(a, b) && a.Points-b.Points >= 1
}

// IsSetPoint reports whether a wins the set by winning the next point.
func IsSetPoint(a, b model.PersonScore) bool {
	if !IsGamePoint(a, b) {
		return false
	}
	if IsTieBreakTime(a, b) {
		return true
	}
	return a.Games >= setPointGames && a.Games-b.Games >= 1
}

// AwardPoint gives the next point to winner, closing the game or set when due.
func AwardPoint(winner, loser *model.PersonScore) {
	switch {
	case IsSetPoint(*winner, *loser):
		winner.GamesByCompletedSet = append(winner.GamesByCompletedSet, winner.Games+1)
		loser.GamesByCompletedSet = append(loser.GamesByCompletedSet, loser.Games)
		winner.Games, winner.Points, winner.Serve = 0, 0, 0
		loser.Games, loser.Points, loser.Serve = 0, 0, 0
	case IsGamePoint(*winner, *loser):
		winner.Games++
		winner.Points, winner.Serve = 0, 0
		loser.Points, loser.Serve = 0, 0
	default:
		winner.Points++
		winner.Serve = 0
		loser.Serve = 0
	}
}

// Apply returns the score after rally. The input is never modified.
func Apply(s model.Score, rally model.Rally) model.Score {
	out := s.Clone()
	server, returner := &out.P2, &out.P1
	if rally.IsMyServe {
		server, returner = &out.P1, &out.P2
	}

	switch model.ClassifyOutcome(rally.Result, server.Serve == 1) {
	case model.OutcomeServerWins:
		AwardPoint(server, returner)
	case model.OutcomeReturnerWins, model.OutcomeDoubleFault:
		AwardPoint(returner, server)
	case model.OutcomeFirstServeFault:
		server.Serve = 1
	case model.OutcomeLet:
		out.NumLets++
	case model.OutcomeNone:
	}
	return out
}

// ApplyAll folds rallies over a fresh score.
func ApplyAll(rallies []model.Rally) model.Score {
	var s model.Score
	for _, r := range rallies {
		s = Apply(s, r)
	}
	return s
}

var tennisPoints = map[int]string{
	0: "0",
	1: "15",
	2: "30",
	3: "40",
}

// PointsStr renders the point score of the current game, P1 first.
func PointsStr(s model.Score) string {
	p1, p2 := s.P1.Points, s.P2.Points
	if IsTieBreakTime(s.P1, s.P2) {
		return fmt.Sprintf("%d-%d", p1, p2)
	}
	if p1 <= gameDeuceThreshold && p2 <= gameDeuceThreshold {
		return tennisPoints[p1] + "-" + tennisPoints[p2]
	}
	switch {
	case p1 == p2:
		return fmt.Sprintf("40-40 #%d", p1-2)
	case p1 > p2:
		return "Ad-__"
	default:
		return "__-Ad"
	}
}

// PlayerPointsStr renders one player's half of PointsStr.
func PlayerPointsStr(s model.Score, p model.Player) string {
	self, other := s.P1, s.P2
	if p == model.P2 {
		self, other = s.P2, s.P1
	}
	if IsTieBreakTime(self, other) {
		return fmt.Sprintf("%d", self.Points)
	}
	if self.Points <= gameDeuceThreshold && other.Points <= gameDeuceThreshold {
		return tennisPoints[self.Points]
	}
	switch {
	case self.Points == other.Points:
		return "40"
	case self.Points > other.Points:
		return "Ad"
	default:
		return "__"
	}
}

// GamesStr renders the games of the set in progress, e.g. "3-2".
func GamesStr(s model.Score) string {
	return fmt.Sprintf("%d-%d", s.P1.Games, s.P2.Games)
}

// SetsStr renders completed sets, e.g. "6-4 3-6".
func SetsStr(s model.Score) string {
	out := ""
	for i, g := range s.P1.GamesByCompletedSet {
		if i > 0 {
			out += " "
		}
		p2 := 0
		if i < len(s.P2.GamesByCompletedSet) {
			p2 = s.P2.GamesByCompletedSet[i]
		}
		out += fmt.Sprintf("%d-%d", g, p2)
	}
	return out
}

// SetsWon counts completed sets won by each player.
func SetsWon(s model.Score) (p1, p2 int) {
	for i, g := range s.P1.GamesByCompletedSet {
		if i >= len(s.P2.GamesByCompletedSet) {
			break
		}
		switch {
		case g > s.P2.GamesByCompletedSet[i]:
			p1++
		case g < s.P2.GamesByCompletedSet[i]:
			p2++
		}
	}
	return p1, p2
}
