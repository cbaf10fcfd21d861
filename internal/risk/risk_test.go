package risk

import (
	"testing"

	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

// point builds a context for a single rally. secondServe puts the server on
// its second serve before the rally.
func point(t *testing.T, result model.RallyResult, isMyServe, secondServe bool, winnerQ, loserQ int) timeline.RallyContext {
	t.Helper()
	var s model.Score
	if secondServe {
		if isMyServe {
			s.P1.Serve = 1
		} else {
			s.P2.Serve = 1
		}
	}
	return timeline.RallyContext{
		ScoreBefore: s,
		Rally: &model.Rally{
			Result:    result,
			IsMyServe: isMyServe,
			Stat:      model.RallyStat{WinnerLastShotQuality: winnerQ, LoserPreviousShotQuality: loserQ},
		},
	}
}

func TestClassification(t *testing.T) {
	tests := []struct {
		name        string
		ctx         timeline.RallyContext
		wantForcing bool
		wantUE      bool
		wantSafe    bool
		wantLevel   int
		wantStr     string
	}{
		{
			name:        "stretcher off the first-serve toss",
			ctx:         point(t, model.ResultPtServer, true, false, 5, 0),
			wantForcing: true, wantSafe: true, wantLevel: 1,
			wantStr: green + " Aggro",
		},
		{
			name:        "stretcher off the second-serve toss",
			ctx:         point(t, model.ResultPtServer, true, true, 5, 0),
			wantForcing: true, wantLevel: 2,
			wantStr: yellow + " Aggro+",
		},
		{
			name:        "rusher off a stretcher",
			ctx:         point(t, model.ResultPtReturner, false, false, 4, 5),
			wantForcing: true, wantLevel: 3,
			wantStr: red + " Steal",
		},
		{
			name:        "opponent wins on a weak shot",
			ctx:         point(t, model.ResultPtReturner, true, false, 2, 3),
			wantUE:      true, wantLevel: -1,
			wantStr: "Free+ " + white + white,
		},
		{
			name:   "double fault",
			ctx:    point(t, model.ResultFault, true, true, 0, 0),
			wantUE: true, wantLevel: -3,
			wantStr: "Double " + ball,
		},
		{
			name:      "unrated point",
			ctx:       point(t, model.ResultPtServer, false, false, 0, 0),
			wantLevel: -4,
			wantStr:   "",
		},
		{
			name:      "first-serve fault",
			ctx:       point(t, model.ResultFault, true, false, 5, 0),
			wantLevel: 1,
			wantStr:   "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsForcingWin(tt.ctx); got != tt.wantForcing {
				t.Errorf("IsForcingWin = %v, want %v", got, tt.wantForcing)
			}
			if got := IsUnforcedError(tt.ctx); got != tt.wantUE {
				t.Errorf("IsUnforcedError = %v, want %v", got, tt.wantUE)
			}
			if got := IsSafeForcingWin(tt.ctx); got != tt.wantSafe {
				t.Errorf("IsSafeForcingWin = %v, want %v", got, tt.wantSafe)
			}
			if got := RiskLevel(tt.ctx); got != tt.wantLevel {
				t.Errorf("RiskLevel = %d, want %d", got, tt.wantLevel)
			}
			if got := RiskLevelStr(tt.ctx); got != tt.wantStr {
				t.Errorf("RiskLevelStr = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestRiskLevelLabel(t *testing.T) {
	if got := RiskLevelLabel(0, true); got != green+green+" Patient" {
		t.Errorf("Patient for me: got %q", got)
	}
	if got := RiskLevelLabel(4, false); got != "Steal+ "+red+red {
		t.Errorf("Steal+ for opponent: got %q", got)
	}
	if got := RiskLevelLabel(-3, true); got != white+" Passive++" {
		t.Errorf("Passive++: got %q", got)
	}
	if got := RiskLevelLabel(7, true); got != "7" {
		t.Errorf("out-of-table level should render as integer, got %q", got)
	}
}

func TestShotRating(t *testing.T) {
	ctx := point(t, model.ResultPtServer, true, false, 5, 1)
	if got := ShotRatingStr(true, ctx); got != green+green {
		t.Errorf("winner rating: got %q", got)
	}
	if got := ShotRatingStr(false, ctx); got != red+red {
		t.Errorf("loser rating: got %q", got)
	}
	if got := ShotRatingLabel(3, false); got != "Neutral "+white {
		t.Errorf("ShotRatingLabel(3) = %q", got)
	}
	if got := ShotRatingLabel(0, true); got != "" {
		t.Errorf("unrated label should be empty, got %q", got)
	}
}

func TestEasiness(t *testing.T) {
	tests := []struct {
		name    string
		ctx     timeline.RallyContext
		forMe   bool
		want    Level
		wantStr string
	}{
		{"safe forcing win", point(t, model.ResultPtServer, true, false, 5, 0), true, LevelMedium, mediumWin},
		{"not my point", point(t, model.ResultPtServer, true, false, 5, 0), false, LevelNone, ""},
		{"risky second-serve win", point(t, model.ResultPtServer, true, true, 5, 0), true, LevelHard, hardWin + "*"},
		{"free point", point(t, model.ResultPtReturner, true, false, 2, 0), false, LevelEasy, easyWin},
		{"double fault", point(t, model.ResultFault, true, true, 0, 0), false, LevelEasy, easyWin + "**"},
		{"let", point(t, model.ResultLet, false, false, 0, 0), true, LevelNone, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Easiness(tt.ctx, tt.forMe); got != tt.want {
				t.Errorf("Easiness = %s, want %s", got, tt.want)
			}
			if got := EasinessStr(tt.ctx, tt.forMe); got != tt.wantStr {
				t.Errorf("EasinessStr = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestDecidedByGame(t *testing.T) {
	var rallies []model.Rally
	for i := 0; i < 4; i++ {
		rallies = append(rallies, model.Rally{Result: model.ResultPtServer, IsMyServe: true})
	}
	rallies = append(rallies,
		model.Rally{Result: model.ResultLet},
		model.Rally{Result: model.ResultPtServer},
	)
	games := DecidedByGame(timeline.Build(rallies))
	if len(games) != 2 {
		t.Fatalf("want 2 games, got %d", len(games))
	}
	if len(games[0]) != 4 || len(games[1]) != 1 {
		t.Errorf("want 4 and 1 decided points, got %d and %d", len(games[0]), len(games[1]))
	}
}
