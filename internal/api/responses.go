package api

import (
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/risk"
	"github.com/pable/go-tennis-grader/internal/score"
	"github.com/pable/go-tennis-grader/internal/timeline"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type summaryResponse struct {
	ID            string `json:"id"`
	MyName        string `json:"myName"`
	OppoName      string `json:"oppoName"`
	ScoringSystem string `json:"scoringSystem"`
	NumRallies    int    `json:"numRallies"`
	CreatedAt     string `json:"createdAt"`
	LastEditedAt  string `json:"lastEditedAt"`
}

func newSummaryResponse(s model.MatchSummary) summaryResponse {
	return summaryResponse{
		ID:            s.ID,
		MyName:        s.MyName,
		OppoName:      s.OppoName,
		ScoringSystem: string(s.ScoringSystem),
		NumRallies:    s.NumRallies,
		CreatedAt:     s.CreatedAt,
		LastEditedAt:  s.LastEditedAt,
	}
}

type matchResponse struct {
	ID            string        `json:"id"`
	ScoringSystem string        `json:"scoringSystem"`
	MyName        string        `json:"myName"`
	OppoName      string        `json:"oppoName"`
	URLs          []string      `json:"urls"`
	Owner         string        `json:"owner,omitempty"`
	CreatedAt     string        `json:"createdAt"`
	LastEditedAt  string        `json:"lastEditedAt"`
	Rallies       []model.Rally `json:"rallies"`
	Score         model.Score   `json:"score"`
	Sets          string        `json:"sets"`
	Games         string        `json:"games"`
	Points        string        `json:"points"`
}

func newMatchResponse(m *model.MatchData, s model.Score) matchResponse {
	urls := m.URLs
	if urls == nil {
		urls = []string{}
	}
	rallies := m.Rallies
	if rallies == nil {
		rallies = []model.Rally{}
	}
	return matchResponse{
		ID:            m.ID,
		ScoringSystem: string(m.ScoringSystem),
		MyName:        m.MyName,
		OppoName:      m.OppoName,
		URLs:          urls,
		Owner:         m.Owner,
		CreatedAt:     m.CreatedAt,
		LastEditedAt:  m.LastEditedAt,
		Rallies:       rallies,
		Score:         s,
		Sets:          score.SetsStr(s),
		Games:         score.GamesStr(s),
		Points:        score.PointsStr(s),
	}
}

type plotResponse struct {
	Text     string `json:"text"`
	IsMyPlot bool   `json:"isMyPlot"`
}

func plotPtr(p timeline.Plot, ok bool) *plotResponse {
	if !ok {
		return nil
	}
	return &plotResponse{Text: p.Text, IsMyPlot: p.IsMyPlot}
}

// contextResponse carries the raw queries of a rally context. Emoji symbols
// are left to the client.
type contextResponse struct {
	Index           int             `json:"index"`
	Rally           *model.Rally    `json:"rally,omitempty"`
	ScoreBefore     model.Score     `json:"scoreBefore"`
	StatBefore      model.MatchStat `json:"statBefore"`
	Outcome         string          `json:"outcome"`
	IsSecondServe   bool            `json:"isSecondServe"`
	IsNewGame       bool            `json:"isNewGame"`
	IsNewSet        bool            `json:"isNewSet"`
	GameScore       string          `json:"gameScore,omitempty"`
	Points          string          `json:"points"`
	Plot            *plotResponse   `json:"plot,omitempty"`
	Converted       *plotResponse   `json:"converted,omitempty"`
	IsForcingWin    bool            `json:"isForcingWin"`
	IsUnforcedError bool            `json:"isUnforcedError"`
	RiskLevel       *int            `json:"riskLevel,omitempty"`
	MyEasiness      string          `json:"myEasiness,omitempty"`
	OppoEasiness    string          `json:"oppoEasiness,omitempty"`
}

func newContextResponse(c timeline.RallyContext) contextResponse {
	out := contextResponse{
		Index:           c.Index,
		Rally:           c.Rally,
		ScoreBefore:     c.ScoreBefore,
		StatBefore:      c.StatBefore,
		Outcome:         c.Outcome().String(),
		IsSecondServe:   c.IsSecondServe(),
		IsNewGame:       c.IsNewGame(),
		IsNewSet:        c.IsNewSet(),
		GameScore:       c.GameScoreStr(),
		Points:          score.PointsStr(c.ScoreBefore),
		Plot:            plotPtr(c.Plot()),
		Converted:       plotPtr(c.PlotForNextRally()),
		IsForcingWin:    risk.IsForcingWin(c),
		IsUnforcedError: risk.IsUnforcedError(c),
	}
	if out.IsForcingWin {
		level := risk.RiskLevel(c)
		out.RiskLevel = &level
	}
	if e := risk.Easiness(c, true); e != risk.LevelNone {
		out.MyEasiness = string(e)
	}
	if e := risk.Easiness(c, false); e != risk.LevelNone {
		out.OppoEasiness = string(e)
	}
	return out
}

type ratioResponse struct {
	Num     int  `json:"num"`
	Den     int  `json:"den"`
	Percent *int `json:"percent"`
}

func newRatio(r model.Ratio) ratioResponse {
	out := ratioResponse{Num: r.Num, Den: r.Den}
	if pct, ok := r.Percent(); ok {
		out.Percent = &pct
	}
	return out
}

type playerStatsResponse struct {
	PointsWon             int           `json:"pointsWon"`
	WinningPct            ratioResponse `json:"winningPct"`
	FirstServePct         ratioResponse `json:"firstServePct"`
	SecondServePct        ratioResponse `json:"secondServePct"`
	ServePointsWonPct     ratioResponse `json:"servePointsWonPct"`
	DoubleFaults          int           `json:"doubleFaults"`
	ForcingWins           int           `json:"forcingWins"`
	UnforcedErrors        int           `json:"unforcedErrors"`
	ForcingWinPct         ratioResponse `json:"forcingWinPct"`
	UnforcedErrorPct      ratioResponse `json:"unforcedErrorPct"`
	ForcingWinPctOnServe  ratioResponse `json:"forcingWinPctOnServe"`
	ForcingWinPctOnReturn ratioResponse `json:"forcingWinPctOnReturn"`
}

func newPlayerStats(stat model.MatchStat, p model.Player) playerStatsResponse {
	own := stat.Of(p)
	return playerStatsResponse{
		PointsWon:             stat.PointsWon(p),
		WinningPct:            newRatio(stat.WinningPct(p)),
		FirstServePct:         newRatio(own.FirstServePct()),
		SecondServePct:        newRatio(own.SecondServePct()),
		ServePointsWonPct:     newRatio(own.ServePointsWonPct()),
		DoubleFaults:          own.NumDoubleFaults(),
		ForcingWins:           stat.ForcingWins(p),
		UnforcedErrors:        stat.UnforcedErrors(p),
		ForcingWinPct:         newRatio(stat.ForcingWinPct(p)),
		UnforcedErrorPct:      newRatio(stat.UnforcedErrorPct(p)),
		ForcingWinPctOnServe:  newRatio(stat.ForcingWinPctOnServe(p)),
		ForcingWinPctOnReturn: newRatio(stat.ForcingWinPctOnReturn(p)),
	}
}

type statsResponse struct {
	MatchID     string              `json:"matchId"`
	At          int                 `json:"at"`
	TotalPoints int                 `json:"totalPoints"`
	Score       model.Score         `json:"score"`
	Counters    model.MatchStat     `json:"counters"`
	P1          playerStatsResponse `json:"p1"`
	P2          playerStatsResponse `json:"p2"`
}

func newStatsResponse(matchID string, at int, c timeline.RallyContext) statsResponse {
	return statsResponse{
		MatchID:     matchID,
		At:          at,
		TotalPoints: c.StatBefore.TotalPoints(),
		Score:       c.ScoreBefore,
		Counters:    c.StatBefore,
		P1:          newPlayerStats(c.StatBefore, model.P1),
		P2:          newPlayerStats(c.StatBefore, model.P2),
	}
}

type nextServeResponse struct {
	MatchID       string      `json:"matchId"`
	IsMyServe     bool        `json:"isMyServe"`
	Server        string      `json:"server"`
	ServerName    string      `json:"serverName"`
	IsSecondServe bool        `json:"isSecondServe"`
	ScoreBefore   model.Score `json:"scoreBefore"`
}
