package model

import "strconv"

// Ratio is a derived percentage kept as its operands so it can never go
// stale or divide by zero.
type Ratio struct {
	Num, Den int
}

// Percent returns the floored percentage. ok is false when there is no data.
func (r Ratio) Percent() (pct int, ok bool) {
	if r.Den == 0 {
		return 0, false
	}
	return r.Num * 100 / r.Den, true
}

// String renders "NN%", or "" when the denominator is zero.
func (r Ratio) String() string {
	pct, ok := r.Percent()
	if !ok {
		return ""
	}
	return strconv.Itoa(pct) + "%"
}

// ---- Per-player counters ----

// PlayerStat holds one player's counters as the server. Lets are never
// counted as serves. Double faults show up as NumSecondServes -
// NumSecondServesMade.
type PlayerStat struct {
	NumGamePts int `json:"numGamePts"`
	NumSetPts  int `json:"numSetPts"`

	NumFirstServes     int `json:"numFirstServes"`
	NumFirstServesMade int `json:"numFirstServesMade"`
	NumFirstServesWon  int `json:"numFirstServesWon"`

	NumSecondServes     int `json:"numSecondServes"`
	NumSecondServesMade int `json:"numSecondServesMade"`
	NumSecondServesWon  int `json:"numSecondServesWon"`

	// Forcing wins on this player's serve, by the server and by the returner.
	NumFirstServeForcingWins            int `json:"numFirstServeForcingWins"`
	NumSecondServeForcingWins           int `json:"numSecondServeForcingWins"`
	NumFirstServeForcingWinsByReturner  int `json:"numFirstServeForcingWinsByReturner"`
	NumSecondServeForcingWinsByReturner int `json:"numSecondServeForcingWinsByReturner"`

	// Unforced errors on this player's serve, by the server and by the returner.
	NumFirstServeUnforcedErrors            int `json:"numFirstServeUnforcedErrors"`
	NumSecondServeUnforcedErrors           int `json:"numSecondServeUnforcedErrors"`
	NumFirstServeUnforcedErrorsByReturner  int `json:"numFirstServeUnforcedErrorsByReturner"`
	NumSecondServeUnforcedErrorsByReturner int `json:"numSecondServeUnforcedErrorsByReturner"`
}

func (s PlayerStat) NumDoubleFaults() int {
	return s.NumSecondServes - s.NumSecondServesMade
}

// NumServePoints counts points decided on this player's serve, double
// faults included.
func (s PlayerStat) NumServePoints() int {
	return s.NumFirstServesMade + s.NumSecondServes
}

func (s PlayerStat) NumServePointsWon() int {
	return s.NumFirstServesWon + s.NumSecondServesWon
}

// NumServePointsLost counts points the returner took on this player's serve.
func (s PlayerStat) NumServePointsLost() int {
	return s.NumServePoints() - s.NumServePointsWon()
}

func (s PlayerStat) FirstServePct() Ratio {
	return Ratio{s.NumFirstServesMade, s.NumFirstServes}
}

func (s PlayerStat) SecondServePct() Ratio {
	return Ratio{s.NumSecondServesMade, s.NumSecondServes}
}

func (s PlayerStat) ServePct() Ratio {
	return Ratio{s.NumFirstServesMade + s.NumSecondServesMade, s.NumFirstServes + s.NumSecondServes}
}

func (s PlayerStat) ServePointsWonPct() Ratio {
	return Ratio{s.NumServePointsWon(), s.NumServePoints()}
}

func (s PlayerStat) FirstServePointsWonPct() Ratio {
	return Ratio{s.NumFirstServesWon, s.NumFirstServesMade}
}

// SecondServePointsWonPct uses all second serves so double faults count as losses.
func (s PlayerStat) SecondServePointsWonPct() Ratio {
	return Ratio{s.NumSecondServesWon, s.NumSecondServes}
}

func (s PlayerStat) forcingWinsOnServe() int {
	return s.NumFirstServeForcingWins + s.NumSecondServeForcingWins
}

func (s PlayerStat) forcingWinsByReturner() int {
	return s.NumFirstServeForcingWinsByReturner + s.NumSecondServeForcingWinsByReturner
}

func (s PlayerStat) unforcedErrorsOnServe() int {
	return s.NumFirstServeUnforcedErrors + s.NumSecondServeUnforcedErrors
}

func (s PlayerStat) unforcedErrorsByReturner() int {
	return s.NumFirstServeUnforcedErrorsByReturner + s.NumSecondServeUnforcedErrorsByReturner
}

// ---- Match-level view ----

type MatchStat struct {
	P1Stats PlayerStat `json:"p1Stats"`
	P2Stats PlayerStat `json:"p2Stats"`
}

// Of returns the counters for a player's own service points.
func (m MatchStat) Of(p Player) PlayerStat {
	if p == P2 {
		return m.P2Stats
	}
	return m.P1Stats
}

// TotalPoints counts every decided point.
func (m MatchStat) TotalPoints() int {
	return m.P1Stats.NumServePoints() + m.P2Stats.NumServePoints()
}

// PointsWon counts points won by p on serve and on return.
func (m MatchStat) PointsWon(p Player) int {
	return m.Of(p).NumServePointsWon() + m.Of(p.Other()).NumServePointsLost()
}

func (m MatchStat) WinningPct(p Player) Ratio {
	return Ratio{m.PointsWon(p), m.TotalPoints()}
}

// ForcingWins counts p's forcing wins on serve and on return.
func (m MatchStat) ForcingWins(p Player) int {
	return m.Of(p).forcingWinsOnServe() + m.Of(p.Other()).forcingWinsByReturner()
}

// UnforcedErrors counts p's unforced errors on serve and on return.
func (m MatchStat) UnforcedErrors(p Player) int {
	return m.Of(p).unforcedErrorsOnServe() + m.Of(p.Other()).unforcedErrorsByReturner()
}

func (m MatchStat) ForcingWinPct(p Player) Ratio {
	return Ratio{m.ForcingWins(p), m.TotalPoints()}
}

func (m MatchStat) ForcingWinPctOnServe(p Player) Ratio {
	s := m.Of(p)
	return Ratio{s.forcingWinsOnServe(), s.NumServePoints()}
}

func (m MatchStat) ForcingWinPctOnFirstServe(p Player) Ratio {
	s := m.Of(p)
	return Ratio{s.NumFirstServeForcingWins, s.NumFirstServesMade}
}

func (m MatchStat) ForcingWinPctOnSecondServe(p Player) Ratio {
	s := m.Of(p)
	return Ratio{s.NumSecondServeForcingWins, s.NumSecondServes}
}

func (m MatchStat) ForcingWinPctOnReturn(p Player) Ratio {
	o := m.Of(p.Other())
	return Ratio{o.forcingWinsByReturner(), o.NumServePoints()}
}

func (m MatchStat) ForcingWinPctOnFirstReturn(p Player) Ratio {
	o := m.Of(p.Other())
	return Ratio{o.NumFirstServeForcingWinsByReturner, o.NumFirstServesMade}
}

func (m MatchStat) ForcingWinPctOnSecondReturn(p Player) Ratio {
	o := m.Of(p.Other())
	return Ratio{o.NumSecondServeForcingWinsByReturner, o.NumSecondServesMade}
}

func (m MatchStat) UnforcedErrorPct(p Player) Ratio {
	return Ratio{m.UnforcedErrors(p), m.TotalPoints()}
}

func (m MatchStat) UnforcedErrorPctOnServe(p Player) Ratio {
	s := m.Of(p)
	return Ratio{s.unforcedErrorsOnServe(), s.NumServePoints()}
}

func (m MatchStat) UnforcedErrorPctOnFirstServe(p Player) Ratio {
	s := m.Of(p)
	return Ratio{s.NumFirstServeUnforcedErrors, s.NumFirstServesMade}
}

func (m MatchStat) UnforcedErrorPctOnSecondServe(p Player) Ratio {
	s := m.Of(p)
	return Ratio{s.NumSecondServeUnforcedErrors, s.NumSecondServes}
}

func (m MatchStat) UnforcedErrorPctOnReturn(p Player) Ratio {
	o := m.Of(p.Other())
	return Ratio{o.unforcedErrorsByReturner(), o.NumFirstServesMade + o.NumSecondServesMade}
}

func (m MatchStat) UnforcedErrorPctOnFirstReturn(p Player) Ratio {
	o := m.Of(p.Other())
	return Ratio{o.NumFirstServeUnforcedErrorsByReturner, o.NumFirstServesMade}
}

func (m MatchStat) UnforcedErrorPctOnSecondReturn(p Player) Ratio {
	o := m.Of(p.Other())
	return Ratio{o.NumSecondServeUnforcedErrorsByReturner, o.NumSecondServesMade}
}
