package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session is one pipeline run or replay.
type Session struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	EndedAt   time.Time `json:"ended_at,omitempty"` // Zero while the session is open
	Frames    int64     `json:"frames"`
}

// Active reports whether the session has not been ended.
func (s Session) Active() bool {
	return s.EndedAt.IsZero()
}

// Duration returns the session length, or zero while it is open.
func (s Session) Duration() time.Duration {
	if s.Active() {
		return 0
	}
	return s.EndedAt.Sub(s.StartedAt)
}

// StartSession opens a new session for source (a camera device, video path or
// recording) and returns it.
func (j *Journal) StartSession(ctx context.Context, source string, at time.Time) (Session, error) {
	s := Session{ID: uuid.NewString(), Source: source, StartedAt: at.UTC()}
	if _, err := j.exec(ctx,
		"INSERT INTO sessions (id, source, started_at) VALUES (?, ?, ?)",
		s.ID, s.Source, formatTime(s.StartedAt),
	); err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	return s, nil
}

// EndSession closes a session, recording the number of frames processed.
func (j *Journal) EndSession(ctx context.Context, id string, at time.Time, frames int64) error {
	res, err := j.exec(ctx,
		"UPDATE sessions SET ended_at = ?, frames = ? WHERE id = ?",
		formatTime(at), frames, id,
	)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// Session returns the session with the given id. A unique id prefix is
// accepted so short ids printed by the CLI can be passed back in.
func (j *Journal) Session(ctx context.Context, id string) (Session, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, source, started_at, ended_at, frames FROM sessions WHERE id = ? OR id LIKE ? ORDER BY started_at",
		id, id+"%",
	)
	if err != nil {
		return Session{}, fmt.Errorf("query session: %w", err)
	}
	defer rows.Close()

	var found []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return Session{}, err
		}
		if s.ID == id {
			return s, nil
		}
		found = append(found, s)
	}
	if err := rows.Err(); err != nil {
		return Session{}, err
	}
	switch len(found) {
	case 0:
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Session{}, fmt.Errorf("journal: session prefix %q is ambiguous (%d matches)", id, len(found))
	}
}

// Sessions returns every session, newest first.
func (j *Journal) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT id, source, started_at, ended_at, frames FROM sessions ORDER BY started_at DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Latest returns the most recently started session.
func (j *Journal) Latest(ctx context.Context) (Session, error) {
	row := j.db.QueryRowContext(ctx,
		"SELECT id, source, started_at, ended_at, frames FROM sessions ORDER BY started_at DESC LIMIT 1",
	)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrSessionNotFound
	}
	return s, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var (
		s       Session
		started string
		ended   sql.NullString
	)
	if err := sc.Scan(&s.ID, &s.Source, &started, &ended, &s.Frames); err != nil {
		return Session{}, err
	}
	var err error
	if s.StartedAt, err = parseTime(started); err != nil {
		return Session{}, err
	}
	if ended.Valid {
		if s.EndedAt, err = parseTime(ended.String); err != nil {
			return Session{}, err
		}
	}
	return s, nil
}
