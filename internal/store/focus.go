package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const focusColumns = `id, day, kind, label, planned_seconds, outcome, started_at, ended_at`

// BeginFocus records the start of a task or break countdown.
func (s *Store) BeginFocus(day, kind, label string, plannedSeconds int64) (*FocusSession, error) {
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (id, day, kind, label, planned_seconds, outcome, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, day, kind, label, plannedSeconds, OutcomeRunning, now,
	)
	if err != nil {
		return nil, fmt.Errorf("begin focus: %w", err)
	}
	return s.GetFocus(id)
}

// ExtendFocus adds seconds to the planned length of a session.
func (s *Store) ExtendFocus(id string, seconds int64) error {
	_, err := s.db.Exec(
		`UPDATE focus_sessions SET planned_seconds = planned_seconds + ? WHERE id = ?`, seconds, id,
	)
	if err != nil {
		return fmt.Errorf("extend focus %s: %w", id, err)
	}
	return nil
}

// EndFocus closes a session with the given outcome.
func (s *Store) EndFocus(id, outcome string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE focus_sessions SET outcome = ?, ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		outcome, now, id,
	)
	if err != nil {
		return fmt.Errorf("end focus %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("end focus %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *Store) GetFocus(id string) (*FocusSession, error) {
	row := s.db.QueryRow(`SELECT `+focusColumns+` FROM focus_sessions WHERE id = ?`, id)
	f, err := scanFocus(row)
	if err != nil {
		return nil, fmt.Errorf("get focus %s: %w", id, err)
	}
	return f, nil
}

// CloseDangling marks sessions left open by a crash as stopped.
func (s *Store) CloseDangling() (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE focus_sessions SET outcome = ?, ended_at = ? WHERE ended_at IS NULL`,
		OutcomeStopped, now,
	)
	if err != nil {
		return 0, fmt.Errorf("close dangling sessions: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) ListFocus(f SessionFilter) ([]FocusSession, error) {
	query := `SELECT ` + focusColumns + ` FROM focus_sessions WHERE 1=1`
	var args []any

	if f.From != "" {
		query += ` AND day >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND day < ?`
		args = append(args, f.To)
	}
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, f.Kind)
	}
	query += ` ORDER BY started_at DESC, rowid DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list focus: %w", err)
	}
	defer rows.Close()

	var sessions []FocusSession
	for rows.Next() {
		f, err := scanFocus(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *f)
	}
	return sessions, rows.Err()
}

// GetDailyFocus aggregates closed sessions per day and kind in [from, to).
func (s *Store) GetDailyFocus(from, to string) ([]DailyFocus, error) {
	rows, err := s.db.Query(`
		SELECT day, kind,
		       COALESCE(SUM(CAST(strftime('%s', ended_at) AS INTEGER) - CAST(strftime('%s', started_at) AS INTEGER)), 0),
		       COUNT(*),
		       SUM(CASE WHEN outcome = 'completed' THEN 1 ELSE 0 END)
		FROM focus_sessions
		WHERE ended_at IS NOT NULL
		  AND day >= ? AND day < ?
		GROUP BY day, kind
		ORDER BY day, kind`,
		from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("daily focus: %w", err)
	}
	defer rows.Close()

	var out []DailyFocus
	for rows.Next() {
		var d DailyFocus
		if err := rows.Scan(&d.Day, &d.Kind, &d.TotalSeconds, &d.Sessions, &d.Completed); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFocus(r rowScanner) (*FocusSession, error) {
	f := &FocusSession{}
	var startedAt string
	var endedAt sql.NullString
	if err := r.Scan(&f.ID, &f.Day, &f.Kind, &f.Label, &f.PlannedSeconds, &f.Outcome, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	f.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if endedAt.Valid {
		t, _ := time.Parse(time.RFC3339, endedAt.String)
		f.EndedAt = &t
	}
	return f, nil
}
