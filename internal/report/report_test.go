package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pable/go-tennis-grader/internal/aggregator"
	"github.com/pable/go-tennis-grader/internal/model"
	"github.com/pable/go-tennis-grader/internal/score"
)

func sampleMatch() *model.MatchData {
	m := &model.MatchData{ID: "0123456789abcdef", MyName: "Ana", OppoName: "Bea", ScoringSystem: model.ScoringProSet6Game}
	for i := 0; i < 4; i++ {
		m.Rallies = append(m.Rallies, model.Rally{
			StartTime: model.VideoTime{Ms: int64(i) * 10000},
			EndTime:   model.VideoTime{Ms: int64(i)*10000 + 4000},
			Result:    model.ResultPtServer,
			IsMyServe: true,
			Stat:      model.RallyStat{WinnerLastShotQuality: 5},
		})
	}
	m.Rallies = append(m.Rallies,
		model.Rally{Result: model.ResultFault},
		model.Rally{Result: model.ResultFault},
	)
	return m
}

func TestPrintMatchSummary(t *testing.T) {
	m := sampleMatch()
	var buf bytes.Buffer
	PrintMatchSummary(&buf, m, score.ApplyAll(m.Rallies))
	out := buf.String()
	for _, want := range []string{"Ana vs Bea", "Games: 1-0", "Points: 15-0", "Rallies: 6", "ID: 0123456789ab"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestPrintRallySheet(t *testing.T) {
	m := sampleMatch()
	var buf bytes.Buffer
	PrintRallySheet(&buf, m, aggregator.Build(m.Rallies), 0, 0)
	out := buf.String()
	for _, want := range []string{"Game Pt", "Converted", "Pt. Ana", "Aggro", "Double"} {
		if !strings.Contains(out, want) {
			t.Errorf("rally sheet missing %q:\n%s", want, out)
		}
	}
}

func TestPrintServeStats(t *testing.T) {
	m := sampleMatch()
	contexts := aggregator.Build(m.Rallies)
	var buf bytes.Buffer
	PrintServeStats(&buf, m, contexts[len(contexts)-1].StatBefore)
	out := buf.String()
	for _, want := range []string{"1st serve in", "0% (0/1)", "Double faults", "100% (4/4)", "100% (5/5)"} {
		if !strings.Contains(out, want) {
			t.Errorf("serve stats missing %q:\n%s", want, out)
		}
	}
}

func TestPrintShotStats_NoData(t *testing.T) {
	var buf bytes.Buffer
	PrintShotStats(&buf, sampleMatch(), model.MatchStat{})
	if !strings.Contains(buf.String(), "—") {
		t.Errorf("empty stats should render as dashes:\n%s", buf.String())
	}
}

func TestPrintEasinessByGame(t *testing.T) {
	m := sampleMatch()
	var buf bytes.Buffer
	PrintEasinessByGame(&buf, m, aggregator.Build(m.Rallies))
	out := buf.String()
	if !strings.Contains(out, "🍋") {
		t.Errorf("safe forcing wins should show as medium:\n%s", out)
	}
	if !strings.Contains(out, "🥬**") {
		t.Errorf("double fault should show as easy with two marks:\n%s", out)
	}
}

func TestPrintQueryResult(t *testing.T) {
	var buf bytes.Buffer
	PrintQueryResult(&buf, []string{"result", "n"}, [][]string{{"PtServer", "4"}, {"Fault", "2"}})
	out := buf.String()
	for _, want := range []string{"PtServer", "Fault"} {
		if !strings.Contains(out, want) {
			t.Errorf("query table missing %q:\n%s", want, out)
		}
	}
}
