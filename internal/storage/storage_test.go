package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pable/go-tennis-grader/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	db.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { db.Close() })
	return db
}

func rallyAt(ms int64, result model.RallyResult, isMyServe bool) model.Rally {
	return model.Rally{
		StartTime: model.VideoTime{Ms: ms},
		EndTime:   model.VideoTime{Ms: ms + 3000},
		Result:    result,
		IsMyServe: isMyServe,
	}
}

func sampleMatch(id string) *model.MatchData {
	return &model.MatchData{
		ID:            id,
		ScoringSystem: model.ScoringTiebreak7Point,
		MyName:        "Ana",
		OppoName:      "Bea",
		URLs:          []string{"https://example.com/a.mp4"},
		Owner:         "uid-1",
		CreatedAt:     "2025-01-01T00:00:00Z",
		LastEditedAt:  "2025-01-02T00:00:00Z",
		Rallies: []model.Rally{
			rallyAt(1000, model.ResultFault, true),
			{
				StartTime: model.VideoTime{Ms: 5000, VideoIndex: 1},
				EndTime:   model.VideoTime{Ms: 9000, VideoIndex: 1},
				Result:    model.ResultPtServer,
				IsMyServe: true,
				Stat:      model.RallyStat{WinnerLastShotQuality: 4, LoserPreviousShotQuality: 2},
			},
		},
	}
}

func TestMatchInsertAndGet(t *testing.T) {
	db := openMemDB(t)
	m := sampleMatch("m1")
	if err := db.InsertMatch(m); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	exists, err := db.MatchExists("m1")
	if err != nil {
		t.Fatalf("MatchExists: %v", err)
	}
	if !exists {
		t.Error("expected match to exist after insert")
	}
	if exists2, _ := db.MatchExists("nope"); exists2 {
		t.Error("expected unknown match to not exist")
	}

	got, err := db.GetMatch("m1")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if !reflect.DeepEqual(got, m) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, m)
	}

	missing, err := db.GetMatch("nope")
	if err != nil || missing != nil {
		t.Errorf("unknown match: want nil, nil; got %v, %v", missing, err)
	}
}

func TestInsertMatch_Replaces(t *testing.T) {
	db := openMemDB(t)
	m := sampleMatch("m1")
	if err := db.InsertMatch(m); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	m.Rallies = m.Rallies[:1]
	m.MyName = "Ana B."
	if err := db.InsertMatch(m); err != nil {
		t.Fatalf("InsertMatch again: %v", err)
	}
	got, err := db.GetMatch("m1")
	if err != nil {
		t.Fatalf("GetMatch: %v", err)
	}
	if len(got.Rallies) != 1 || got.MyName != "Ana B." {
		t.Errorf("replace did not take: %+v", got)
	}
}

func TestListMatchesAndPrefix(t *testing.T) {
	db := openMemDB(t)
	older := sampleMatch("aaa111")
	newer := sampleMatch("bbb222")
	newer.LastEditedAt = "2025-02-01T00:00:00Z"
	newer.Rallies = nil
	for _, m := range []*model.MatchData{older, newer} {
		if err := db.InsertMatch(m); err != nil {
			t.Fatalf("InsertMatch: %v", err)
		}
	}

	list, err := db.ListMatches()
	if err != nil {
		t.Fatalf("ListMatches: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(list))
	}
	if list[0].ID != "bbb222" || list[1].ID != "aaa111" {
		t.Errorf("want most recently edited first, got %s, %s", list[0].ID, list[1].ID)
	}
	if list[1].NumRallies != 2 || list[0].NumRallies != 0 {
		t.Errorf("rally counts: got %d / %d", list[0].NumRallies, list[1].NumRallies)
	}

	s, err := db.GetMatchByPrefix("aaa")
	if err != nil {
		t.Fatalf("GetMatchByPrefix: %v", err)
	}
	if s == nil || s.ID != "aaa111" || s.ScoringSystem != model.ScoringTiebreak7Point {
		t.Errorf("prefix lookup: got %+v", s)
	}
	none, err := db.GetMatchByPrefix("zzz")
	if err != nil || none != nil {
		t.Errorf("unknown prefix: want nil, nil; got %v, %v", none, err)
	}
}

func TestAppendAndRemoveRally(t *testing.T) {
	db := openMemDB(t)
	m := sampleMatch("m1")
	if err := db.InsertMatch(m); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	added := rallyAt(20000, model.ResultPtReturner, false)
	if err := db.AppendRally("m1", added); err != nil {
		t.Fatalf("AppendRally: %v", err)
	}
	got, _ := db.GetMatch("m1")
	if len(got.Rallies) != 3 || got.Rallies[2] != added {
		t.Fatalf("appended rally should be last, got %+v", got.Rallies)
	}
	if got.LastEditedAt != "2025-03-01T12:00:00Z" {
		t.Errorf("edit time not bumped: %q", got.LastEditedAt)
	}

	removed, err := db.RemoveRallyAt("m1", model.VideoTime{Ms: 5000, VideoIndex: 1})
	if err != nil || !removed {
		t.Fatalf("RemoveRallyAt: removed=%v err=%v", removed, err)
	}
	got, _ = db.GetMatch("m1")
	if len(got.Rallies) != 2 || got.Rallies[1] != added {
		t.Errorf("order after removal: %+v", got.Rallies)
	}

	// Same ms on a different video is a different rally.
	removed, err = db.RemoveRallyAt("m1", model.VideoTime{Ms: 1000, VideoIndex: 3})
	if err != nil || removed {
		t.Errorf("no-op removal: removed=%v err=%v", removed, err)
	}

	if err := db.AppendRally("nope", added); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("append to unknown match: want ErrMatchNotFound, got %v", err)
	}
}

func TestDeleteMatchCascades(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertMatch(sampleMatch("m1")); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	deleted, err := db.DeleteMatch("m1")
	if err != nil || !deleted {
		t.Fatalf("DeleteMatch: deleted=%v err=%v", deleted, err)
	}
	_, rows, err := db.QueryRaw("SELECT COUNT(1) FROM rallies")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if rows[0][0] != "0" {
		t.Errorf("rallies should cascade, %s left", rows[0][0])
	}
	if again, _ := db.DeleteMatch("m1"); again {
		t.Error("second delete should report nothing deleted")
	}
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertMatch(sampleMatch("m1")); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}
	cols, rows, err := db.QueryRaw("SELECT result, winner_shot, NULL AS note FROM rallies ORDER BY seq")
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"result", "winner_shot", "note"}) {
		t.Errorf("columns: %v", cols)
	}
	want := [][]string{{"Fault", "0", "NULL"}, {"PtServer", "4", "NULL"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows: got %v, want %v", rows, want)
	}
	if _, _, err := db.QueryRaw("SELECT * FROM nope"); err == nil {
		t.Error("expected error for unknown table")
	}
}

func TestPing(t *testing.T) {
	db := openMemDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
	db.Close()
	if err := db.Ping(context.Background()); err == nil {
		t.Error("expected ping on a closed db to fail")
	}
}
