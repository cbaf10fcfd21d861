package model

import "testing"

func TestRatio(t *testing.T) {
	tests := []struct {
		r   Ratio
		pct int
		ok  bool
		str string
	}{
		{Ratio{0, 0}, 0, false, ""},
		{Ratio{1, 3}, 33, true, "33%"},
		{Ratio{2, 3}, 66, true, "66%"},
		{Ratio{5, 5}, 100, true, "100%"},
	}
	for _, tt := range tests {
		pct, ok := tt.r.Percent()
		if pct != tt.pct || ok != tt.ok {
			t.Errorf("%+v.Percent() = %d, %v; want %d, %v", tt.r, pct, ok, tt.pct, tt.ok)
		}
		if got := tt.r.String(); got != tt.str {
			t.Errorf("%+v.String() = %q, want %q", tt.r, got, tt.str)
		}
	}
}

func TestMatchStatPointsWon(t *testing.T) {
	m := MatchStat{
		P1Stats: PlayerStat{NumFirstServes: 5, NumFirstServesMade: 4, NumFirstServesWon: 3, NumSecondServes: 1, NumSecondServesMade: 1, NumSecondServesWon: 1},
		P2Stats: PlayerStat{NumFirstServes: 3, NumFirstServesMade: 2, NumFirstServesWon: 1, NumSecondServes: 1},
	}
	if got := m.TotalPoints(); got != 8 {
		t.Fatalf("TotalPoints = %d, want 8", got)
	}
	if got := m.PointsWon(P1); got != 6 {
		t.Errorf("PointsWon(P1) = %d, want 6", got)
	}
	if got := m.PointsWon(P2); got != 2 {
		t.Errorf("PointsWon(P2) = %d, want 2", got)
	}
	if got := m.P2Stats.NumDoubleFaults(); got != 1 {
		t.Errorf("NumDoubleFaults = %d, want 1", got)
	}
	if got := m.WinningPct(P1).String(); got != "75%" {
		t.Errorf("WinningPct(P1) = %q, want 75%%", got)
	}
}

func TestEmptyStatNeverDividesByZero(t *testing.T) {
	var m MatchStat
	for _, r := range []Ratio{
		m.WinningPct(P1),
		m.ForcingWinPctOnSecondReturn(P2),
		m.UnforcedErrorPctOnReturn(P1),
		m.P1Stats.SecondServePointsWonPct(),
	} {
		if _, ok := r.Percent(); ok {
			t.Errorf("expected no data for %+v", r)
		}
	}
}
