package parser

import "github.com/pable/go-tennis-grader/internal/model"

// Wire shapes of the persisted document. Fields are only ever added, so
// every field is optional on read.

type wireProject struct {
	ProjectInfo *wireProjectInfo `json:"projectInfo,omitempty"`
	MatchData   *wireMatchData   `json:"matchData,omitempty"`
}

type wireProjectInfo struct {
	ID           string `json:"id"`
	Owner        string `json:"owner"`
	OwnerEmail   string `json:"ownerEmail"`
	CreatedAt    string `json:"createdAt"`
	LastEditedAt string `json:"lastEditedAt"`
}

type wireMatchData struct {
	ScoringSystem model.ScoringSystem `json:"scoringSystem"`
	Rallies       []wireRally         `json:"rallies"`
	MyName        string              `json:"myName"`
	OppoName      string              `json:"oppoName"`
	URLs          []string            `json:"urls"`
}

type wireRally struct {
	StartTime *model.VideoTime `json:"startTime"`
	EndTime   *model.VideoTime `json:"endTime"`
	Result    string           `json:"result"`
	IsMyServe bool             `json:"isMyServe"`
	Stat      *model.RallyStat `json:"stat,omitempty"`
}

const (
	DefaultMyName   = "Me"
	DefaultOppoName = "Opponent"
)

func (w wireMatchData) toModel(info wireProjectInfo) model.MatchData {
	m := model.MatchData{
		ID:            info.ID,
		ScoringSystem: w.ScoringSystem,
		MyName:        w.MyName,
		OppoName:      w.OppoName,
		URLs:          w.URLs,
		Owner:         info.Owner,
		OwnerEmail:    info.OwnerEmail,
		CreatedAt:     info.CreatedAt,
		LastEditedAt:  info.LastEditedAt,
		Rallies:       make([]model.Rally, 0, len(w.Rallies)),
	}
	if m.ScoringSystem == "" {
		m.ScoringSystem = model.ScoringProSet6Game
	}
	if m.MyName == "" {
		m.MyName = DefaultMyName
	}
	if m.OppoName == "" {
		m.OppoName = DefaultOppoName
	}
	for _, r := range w.Rallies {
		rally := model.Rally{Result: model.RallyResult(r.Result), IsMyServe: r.IsMyServe}
		if r.StartTime != nil {
			rally.StartTime = *r.StartTime
		}
		if r.EndTime != nil {
			rally.EndTime = *r.EndTime
		}
		if r.Stat != nil {
			rally.Stat = *r.Stat
		}
		m.Rallies = append(m.Rallies, rally)
	}
	return m
}

func fromModel(m model.MatchData) wireProject {
	info := &wireProjectInfo{
		ID:           m.ID,
		Owner:        m.Owner,
		OwnerEmail:   m.OwnerEmail,
		CreatedAt:    m.CreatedAt,
		LastEditedAt: m.LastEditedAt,
	}
	data := &wireMatchData{
		ScoringSystem: m.ScoringSystem,
		MyName:        m.MyName,
		OppoName:      m.OppoName,
		URLs:          m.URLs,
		Rallies:       make([]wireRally, 0, len(m.Rallies)),
	}
	if data.URLs == nil {
		data.URLs = []string{}
	}
	for _, r := range m.Rallies {
		start, end, stat := r.StartTime, r.EndTime, r.Stat
		data.Rallies = append(data.Rallies, wireRally{
			StartTime: &start,
			EndTime:   &end,
			Result:    string(r.Result),
			IsMyServe: r.IsMyServe,
			Stat:      &stat,
		})
	}
	return wireProject{ProjectInfo: info, MatchData: data}
}
