package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/teslashibe/go-focus/pkg/alert"
	"github.com/teslashibe/go-focus/pkg/attention"
)

// EventKind is the kind of a track lifecycle event.
type EventKind string

const (
	EventCreated EventKind = "created"
	EventDropped EventKind = "dropped"
	EventMood    EventKind = "mood"
)

// Event is one track lifecycle event. Mood is the track's stable mood after
// the event and is empty for EventDropped.
type Event struct {
	TrackID int            `json:"track_id"`
	Kind    EventKind      `json:"kind"`
	Mood    attention.Mood `json:"mood,omitempty"`
	At      time.Time      `json:"at"`
}

// AlertRecord is one journaled alert.
type AlertRecord struct {
	TrackID int                 `json:"track_id"`
	Kind    attention.AlertKind `json:"kind"`
	Message string              `json:"message"`
	At      time.Time           `json:"at"`
}

// EventsFromFrame derives the lifecycle events of one frame result.
// Drops come first, then creations and mood changes in detection order. A
// track created this frame gets a single created event carrying its mood.
func EventsFromFrame(res attention.FrameResult) []Event {
	var out []Event
	for _, id := range res.Dropped {
		out = append(out, Event{TrackID: id, Kind: EventDropped, At: res.Time})
	}

	created := make(map[int]bool, len(res.Created))
	for _, id := range res.Created {
		created[id] = true
	}
	for _, tr := range res.Tracks {
		switch {
		case created[tr.ID]:
			out = append(out, Event{TrackID: tr.ID, Kind: EventCreated, Mood: tr.StableMood, At: res.Time})
		case tr.StableChanged:
			out = append(out, Event{TrackID: tr.ID, Kind: EventMood, Mood: tr.StableMood, At: res.Time})
		}
	}
	return out
}

// RecordFrame journals the lifecycle events and alerts of one frame in a
// single transaction. Frames with nothing to record are a no-op.
func (j *Journal) RecordFrame(ctx context.Context, session string, res attention.FrameResult) error {
	events := EventsFromFrame(res)
	alerts := alert.FromFrame(res)
	if len(events) == 0 && len(alerts) == 0 {
		return nil
	}

	err := j.withTx(ctx, func(tx *sql.Tx) error {
		for _, e := range events {
			if err := insertEvent(ctx, tx, session, e); err != nil {
				return err
			}
		}
		for _, a := range alerts {
			if err := insertAlert(ctx, tx, session, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record frame: %w", err)
	}
	return nil
}

// RecordAlert journals a single alert.
func (j *Journal) RecordAlert(ctx context.Context, session string, a alert.Alert) error {
	err := j.withTx(ctx, func(tx *sql.Tx) error {
		return insertAlert(ctx, tx, session, a)
	})
	if err != nil {
		return fmt.Errorf("record alert: %w", err)
	}
	return nil
}

func insertEvent(ctx context.Context, tx *sql.Tx, session string, e Event) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO track_events (session_id, track_id, kind, mood, at) VALUES (?, ?, ?, ?, ?)",
		session, e.TrackID, string(e.Kind), string(e.Mood), formatTime(e.At),
	)
	return err
}

func insertAlert(ctx context.Context, tx *sql.Tx, session string, a alert.Alert) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO alerts (session_id, track_id, kind, message, at) VALUES (?, ?, ?, ?, ?)",
		session, a.TrackID, string(a.Kind), a.Message(), formatTime(a.At),
	)
	return err
}

// Events returns the lifecycle events of a session in the order recorded.
func (j *Journal) Events(ctx context.Context, session string) ([]Event, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT track_id, kind, mood, at FROM track_events WHERE session_id = ? ORDER BY id",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e          Event
			kind, mood string
			at         string
		)
		if err := rows.Scan(&e.TrackID, &kind, &mood, &at); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		e.Mood = attention.Mood(mood)
		if e.At, err = parseTime(at); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Alerts returns the alerts of a session in the order recorded.
func (j *Journal) Alerts(ctx context.Context, session string) ([]AlertRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		"SELECT track_id, kind, message, at FROM alerts WHERE session_id = ? ORDER BY id",
		session,
	)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var (
			a        AlertRecord
			kind, at string
		)
		if err := rows.Scan(&a.TrackID, &kind, &a.Message, &at); err != nil {
			return nil, err
		}
		a.Kind = attention.AlertKind(kind)
		if a.At, err = parseTime(at); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
