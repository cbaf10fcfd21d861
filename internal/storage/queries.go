package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pable/go-tennis-grader/internal/model"
)

// ErrMatchNotFound is returned by writes that target a match that is not stored.
var ErrMatchNotFound = errors.New("match not found")

// MatchExists returns true if a match with the given ID is already stored.
func (db *DB) MatchExists(id string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch stores a match and its rallies, replacing any previous copy
// with the same ID.
func (db *DB) InsertMatch(m *model.MatchData) error {
	urls, err := json.Marshal(m.URLs)
	if err != nil {
		return fmt.Errorf("encode urls: %w", err)
	}
	if m.URLs == nil {
		urls = []byte("[]")
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rallies WHERE match_id = ?", m.ID); err != nil {
		return fmt.Errorf("clear rallies: %w", err)
	}
	_, err = tx.Exec(`
		INSERT OR REPLACE INTO matches(id, scoring_system, my_name, oppo_name, urls,
			owner, owner_email, created_at, last_edited_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.ScoringSystem), m.MyName, m.OppoName, string(urls),
		m.Owner, m.OwnerEmail, m.CreatedAt, m.LastEditedAt,
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO rallies(match_id, seq, start_ms, start_video, end_ms, end_video,
			result, is_my_serve, winner_shot, loser_shot)
		VALUES (?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range m.Rallies {
		if _, err := stmt.Exec(rallyArgs(m.ID, i, r)...); err != nil {
			return fmt.Errorf("insert rally %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListMatches returns all stored matches, most recently edited first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.id, m.my_name, m.oppo_name, m.scoring_system, m.created_at, m.last_edited_at,
		       (SELECT COUNT(1) FROM rallies r WHERE r.match_id = m.id)
		FROM matches m
		ORDER BY m.last_edited_at DESC, m.created_at DESC, m.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose ID starts with the given prefix.
// It returns nil, nil when nothing matches.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`
		SELECT m.id, m.my_name, m.oppo_name, m.scoring_system, m.created_at, m.last_edited_at,
		       (SELECT COUNT(1) FROM rallies r WHERE r.match_id = m.id)
		FROM matches m WHERE m.id LIKE ? ORDER BY m.id LIMIT 1`, prefix+"%")
	s, err := scanSummary(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (model.MatchSummary, error) {
	var s model.MatchSummary
	var scoring string
	err := row.Scan(&s.ID, &s.MyName, &s.OppoName, &scoring, &s.CreatedAt, &s.LastEditedAt, &s.NumRallies)
	s.ScoringSystem = model.ScoringSystem(scoring)
	return s, err
}

// GetMatch loads a match with its rallies in recording order. It returns
// nil, nil when the ID is unknown.
func (db *DB) GetMatch(id string) (*model.MatchData, error) {
	var (
		m       model.MatchData
		scoring string
		urls    string
	)
	err := db.conn.QueryRow(`
		SELECT id, scoring_system, my_name, oppo_name, urls, owner, owner_email, created_at, last_edited_at
		FROM matches WHERE id = ?`, id).
		Scan(&m.ID, &scoring, &m.MyName, &m.OppoName, &urls, &m.Owner, &m.OwnerEmail, &m.CreatedAt, &m.LastEditedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.ScoringSystem = model.ScoringSystem(scoring)
	if err := json.Unmarshal([]byte(urls), &m.URLs); err != nil {
		return nil, fmt.Errorf("decode urls of %s: %w", id, err)
	}

	rallies, err := db.getRallies(id)
	if err != nil {
		return nil, err
	}
	m.Rallies = rallies
	return &m, nil
}

func (db *DB) getRallies(matchID string) ([]model.Rally, error) {
	rows, err := db.conn.Query(`
		SELECT start_ms, start_video, end_ms, end_video, result, is_my_serve, winner_shot, loser_shot
		FROM rallies WHERE match_id = ? ORDER BY seq`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Rally{}
	for rows.Next() {
		var r model.Rally
		var result string
		var isMyServe int
		if err := rows.Scan(&r.StartTime.Ms, &r.StartTime.VideoIndex, &r.EndTime.Ms, &r.EndTime.VideoIndex,
			&result, &isMyServe, &r.Stat.WinnerLastShotQuality, &r.Stat.LoserPreviousShotQuality); err != nil {
			return nil, err
		}
		r.Result = model.RallyResult(result)
		r.IsMyServe = isMyServe != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteMatch removes a match and, through the foreign key, its rallies.
// It reports whether anything was deleted.
func (db *DB) DeleteMatch(id string) (bool, error) {
	res, err := db.conn.Exec("DELETE FROM matches WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete match %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// AppendRally records r as the last rally of the match and bumps its edit time.
func (db *DB) AppendRally(matchID string, r model.Rally) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec("UPDATE matches SET last_edited_at = ? WHERE id = ?", db.timestamp(), matchID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("append rally to %s: %w", matchID, ErrMatchNotFound)
	}

	var next int
	if err := tx.QueryRow("SELECT COALESCE(MAX(seq) + 1, 0) FROM rallies WHERE match_id = ?", matchID).Scan(&next); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO rallies(match_id, seq, start_ms, start_video, end_ms, end_video,
			result, is_my_serve, winner_shot, loser_shot)
		VALUES (?,?,?,?,?,?,?,?,?,?)`, rallyArgs(matchID, next, r)...); err != nil {
		return fmt.Errorf("insert rally: %w", err)
	}
	return tx.Commit()
}

// RemoveRallyAt deletes every rally of the match that starts at start. It
// reports false, nil when no rally starts there.
func (db *DB) RemoveRallyAt(matchID string, start model.VideoTime) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM rallies WHERE match_id = ? AND start_ms = ? AND start_video = ?",
		matchID, start.Ms, start.VideoIndex)
	if err != nil {
		return false, fmt.Errorf("remove rally: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return false, err
	}
	if _, err := tx.Exec("UPDATE matches SET last_edited_at = ? WHERE id = ?", db.timestamp(), matchID); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

// QueryRaw runs an arbitrary read query and returns every value as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func rallyArgs(matchID string, seq int, r model.Rally) []any {
	return []any{
		matchID, seq,
		r.StartTime.Ms, r.StartTime.VideoIndex, r.EndTime.Ms, r.EndTime.VideoIndex,
		string(r.Result), boolInt(r.IsMyServe),
		r.Stat.WinnerLastShotQuality, r.Stat.LoserPreviousShotQuality,
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
