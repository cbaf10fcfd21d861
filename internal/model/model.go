package model

import (
	"fmt"
	"math"
	"strconv"
)

// Player identifies one side of a singles match. P1 is always the graded
// player ("me"), P2 the opponent.
type Player int

const (
	P1 Player = 1
	P2 Player = 2
)

// Other returns the opposing player.
func (p Player) Other() Player {
	if p == P1 {
		return P2
	}
	return P1
}

func (p Player) String() string {
	switch p {
	case P1:
		return "P1"
	case P2:
		return "P2"
	default:
		return "?"
	}
}

// ---- Raw rallies as graded against the source video ----

// VideoTime is a video-relative timestamp. A match may span several video
// files, so the offset is paired with the index of the file it belongs to.
type VideoTime struct {
	Ms         int64 `json:"ms"`
	VideoIndex int   `json:"videoIndex"`
}

func (t VideoTime) Equal(other VideoTime) bool {
	return t.Ms == other.Ms && t.VideoIndex == other.VideoIndex
}

func (t VideoTime) String() string {
	return fmt.Sprintf("%d-%d", t.Ms, t.VideoIndex)
}

// RallyResult is the persisted outcome tag of a rally.
type RallyResult string

const (
	ResultFault      RallyResult = "Fault"
	ResultPtServer   RallyResult = "PtServer"
	ResultPtReturner RallyResult = "PtReturner"
	ResultLet        RallyResult = "Let"
)

// RallyResults lists every valid result in display order.
var RallyResults = []RallyResult{ResultFault, ResultPtServer, ResultPtReturner, ResultLet}

// Valid reports whether r is one of the known results.
func (r RallyResult) Valid() bool {
	for _, v := range RallyResults {
		if r == v {
			return true
		}
	}
	return false
}

// RallyStat holds the manual 1-5 shot ratings of a rally. 0 means unrated.
type RallyStat struct {
	WinnerLastShotQuality    int `json:"winnerLastShotQuality"`
	LoserPreviousShotQuality int `json:"loserPreviousShotQuality"`
}

// MaxShotQuality is the top of the rating scale (a "stretcher").
const MaxShotQuality = 5

type Rally struct {
	StartTime VideoTime   `json:"startTime"`
	EndTime   VideoTime   `json:"endTime"`
	Result    RallyResult `json:"result"`
	IsMyServe bool        `json:"isMyServe"`
	Stat      RallyStat   `json:"stat"`
}

// DurationStr returns the rally length in whole seconds.
func (r Rally) DurationStr() string {
	secs := math.Round(float64(r.EndTime.Ms-r.StartTime.Ms) / 1000)
	return strconv.FormatInt(int64(secs), 10)
}

// ResultStr is the server-relative description of the result.
func (r Rally) ResultStr() string {
	switch r.Result {
	case ResultPtServer:
		return "Server's W"
	case ResultPtReturner:
		return "Returner's W"
	default:
		return string(r.Result)
	}
}

// PointOutcome is what a rally did to the score once the serve state is known.
type PointOutcome int

const (
	OutcomeNone PointOutcome = iota // no rally (the next, unplayed point)
	OutcomeFirstServeFault
	OutcomeDoubleFault
	OutcomeLet
	OutcomeServerWins
	OutcomeReturnerWins
)

// ClassifyOutcome folds a persisted result and the serve number into a
// single outcome. Unknown results map to OutcomeNone.
func ClassifyOutcome(result RallyResult, onSecondServe bool) PointOutcome {
	switch result {
	case ResultPtServer:
		return OutcomeServerWins
	case ResultPtReturner:
		return OutcomeReturnerWins
	case ResultLet:
		return OutcomeLet
	case ResultFault:
		if onSecondServe {
			return OutcomeDoubleFault
		}
		return OutcomeFirstServeFault
	default:
		return OutcomeNone
	}
}

// IsPoint reports whether the outcome decided a point.
func (o PointOutcome) IsPoint() bool {
	return o == OutcomeServerWins || o == OutcomeReturnerWins || o == OutcomeDoubleFault
}

// ServerWon reports whether the server took the point.
func (o PointOutcome) ServerWon() bool {
	return o == OutcomeServerWins
}

// ReturnerWon reports whether the returner took the point, including by double fault.
func (o PointOutcome) ReturnerWon() bool {
	return o == OutcomeReturnerWins || o == OutcomeDoubleFault
}

func (o PointOutcome) String() string {
	switch o {
	case OutcomeFirstServeFault:
		return "FirstServeFault"
	case OutcomeDoubleFault:
		return "DoubleFault"
	case OutcomeLet:
		return "Let"
	case OutcomeServerWins:
		return "ServerWins"
	case OutcomeReturnerWins:
		return "ReturnerWins"
	default:
		return "None"
	}
}

// ---- Score ----

// PersonScore is one player's score counters. Serve is 0 while the first
// serve is pending and 1 after a first-serve fault.
type PersonScore struct {
	Serve               int   `json:"serve"`
	Points              int   `json:"points"`
	Games               int   `json:"games"`
	GamesByCompletedSet []int `json:"gamesByCompletedSet"`
}

// Clone returns a deep copy.
func (p PersonScore) Clone() PersonScore {
	out := p
	out.GamesByCompletedSet = make([]int, len(p.GamesByCompletedSet))
	copy(out.GamesByCompletedSet, p.GamesByCompletedSet)
	return out
}

func (p PersonScore) Equal(other PersonScore) bool {
	if p.Serve != other.Serve || p.Points != other.Points || p.Games != other.Games {
		return false
	}
	if len(p.GamesByCompletedSet) != len(other.GamesByCompletedSet) {
		return false
	}
	for i := range p.GamesByCompletedSet {
		if p.GamesByCompletedSet[i] != other.GamesByCompletedSet[i] {
			return false
		}
	}
	return true
}

type Score struct {
	P1      PersonScore `json:"p1"`
	P2      PersonScore `json:"p2"`
	NumLets int         `json:"numLets"`
}

// Clone returns a deep copy; the completed-set slices are not shared.
func (s Score) Clone() Score {
	return Score{P1: s.P1.Clone(), P2: s.P2.Clone(), NumLets: s.NumLets}
}

func (s Score) Equal(other Score) bool {
	return s.NumLets == other.NumLets && s.P1.Equal(other.P1) && s.P2.Equal(other.P2)
}

// Of returns the score of the given player.
func (s Score) Of(p Player) PersonScore {
	if p == P2 {
		return s.P2
	}
	return s.P1
}

// ---- Match record ----

// ScoringSystem is the format label stored with a match.
type ScoringSystem string

const (
	ScoringTiebreak7Point  ScoringSystem = "TIEBREAK_7_POINT"
	ScoringTiebreak10Point ScoringSystem = "TIEBREAK_10_POINT"
	ScoringProSet6Game     ScoringSystem = "PRO_SET_6_GAME"
	ScoringRally           ScoringSystem = "RALLY"
)

// Valid reports whether s is one of the enumerated formats.
func (s ScoringSystem) Valid() bool {
	switch s {
	case ScoringTiebreak7Point, ScoringTiebreak10Point, ScoringProSet6Game, ScoringRally:
		return true
	}
	return false
}

// MatchData is a graded match: the ordered rally list plus its metadata.
type MatchData struct {
	ID            string
	ScoringSystem ScoringSystem
	Rallies       []Rally
	MyName        string
	OppoName      string
	URLs          []string
	Owner         string
	OwnerEmail    string
	CreatedAt     string
	LastEditedAt  string
}

// Name returns the display name for a player.
func (m *MatchData) Name(p Player) string {
	if p == P2 {
		return m.OppoName
	}
	return m.MyName
}

// MatchSummary is a lightweight record for list/show commands.
type MatchSummary struct {
	ID            string
	MyName        string
	OppoName      string
	ScoringSystem ScoringSystem
	NumRallies    int
	CreatedAt     string
	LastEditedAt  string
}
