// Package report summarizes journaled sessions.
package report

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/journal"
)

// Moods lists the stable moods in display order.
var Moods = []attention.Mood{attention.MoodFocus, attention.MoodDistracted, attention.MoodSleepy}

// Track summarizes one track's life within a session.
type Track struct {
	ID     int                              `json:"id"`
	First  time.Time                        `json:"first"`
	Last   time.Time                        `json:"last"`
	Time   map[attention.Mood]time.Duration `json:"time"`
	Alerts map[attention.AlertKind]int      `json:"alerts"`
}

// Duration returns how long the track was live.
func (t Track) Duration() time.Duration {
	return t.Last.Sub(t.First)
}

// FocusRatio returns the share of the track's life spent in MoodFocus. A
// track with no recorded duration reports 0.
func (t Track) FocusRatio() float64 {
	d := t.Duration()
	if d <= 0 {
		return 0
	}
	return float64(t.Time[attention.MoodFocus]) / float64(d)
}

// Summary is the report for one session.
type Summary struct {
	Session journal.Session             `json:"session"`
	Tracks  []Track                     `json:"tracks"` // Ordered by track id
	Alerts  map[attention.AlertKind]int `json:"alerts"`

	// MeanFocus is the focus ratio averaged over tracks, weighted by how long
	// each track was live. FocusStdDev is the unweighted spread across tracks
	// and is zero with fewer than two tracks.
	MeanFocus   float64 `json:"mean_focus"`
	FocusStdDev float64 `json:"focus_stddev"`
}

// TotalAlerts returns the number of alerts in the session.
func (s Summary) TotalAlerts() int {
	n := 0
	for _, c := range s.Alerts {
		n += c
	}
	return n
}

// Summarize rebuilds per-track timelines from a session's events and alerts.
//
// Tracks still live at the end of the events are closed at the session's end
// time, or at the latest event or alert time for a session that is still
// active.
func Summarize(session journal.Session, events []journal.Event, alerts []journal.AlertRecord) Summary {
	end := session.EndedAt
	if end.IsZero() {
		end = lastTime(session.StartedAt, events, alerts)
	}

	type live struct {
		mood  attention.Mood
		since time.Time
	}
	open := make(map[int]*live)
	tracks := make(map[int]*Track)

	get := func(id int, at time.Time) *Track {
		t, ok := tracks[id]
		if !ok {
			t = &Track{
				ID:     id,
				First:  at,
				Last:   at,
				Time:   make(map[attention.Mood]time.Duration),
				Alerts: make(map[attention.AlertKind]int),
			}
			tracks[id] = t
		}
		return t
	}
	closeSpan := func(id int, at time.Time) {
		l, ok := open[id]
		if !ok {
			return
		}
		t := get(id, l.since)
		if at.After(l.since) {
			t.Time[l.mood] += at.Sub(l.since)
		}
		if at.After(t.Last) {
			t.Last = at
		}
	}

	for _, e := range events {
		switch e.Kind {
		case journal.EventCreated:
			get(e.TrackID, e.At)
			open[e.TrackID] = &live{mood: e.Mood, since: e.At}
		case journal.EventMood:
			if _, ok := open[e.TrackID]; !ok {
				get(e.TrackID, e.At)
			} else {
				closeSpan(e.TrackID, e.At)
			}
			open[e.TrackID] = &live{mood: e.Mood, since: e.At}
		case journal.EventDropped:
			closeSpan(e.TrackID, e.At)
			delete(open, e.TrackID)
		}
	}
	for id := range open {
		closeSpan(id, end)
	}

	sum := Summary{Session: session, Alerts: make(map[attention.AlertKind]int)}
	for _, a := range alerts {
		get(a.TrackID, a.At).Alerts[a.Kind]++
		sum.Alerts[a.Kind]++
	}

	ids := make([]int, 0, len(tracks))
	for id := range tracks {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	ratios := make([]float64, 0, len(ids))
	weights := make([]float64, 0, len(ids))
	for _, id := range ids {
		t := *tracks[id]
		sum.Tracks = append(sum.Tracks, t)
		if d := t.Duration(); d > 0 {
			ratios = append(ratios, t.FocusRatio())
			weights = append(weights, d.Seconds())
		}
	}

	if len(ratios) > 0 {
		sum.MeanFocus = stat.Mean(ratios, weights)
	}
	if len(ratios) > 1 {
		sum.FocusStdDev = stat.StdDev(ratios, nil)
	}
	return sum
}

func lastTime(start time.Time, events []journal.Event, alerts []journal.AlertRecord) time.Time {
	last := start
	for _, e := range events {
		if e.At.After(last) {
			last = e.At
		}
	}
	for _, a := range alerts {
		if a.At.After(last) {
			last = a.At
		}
	}
	return last
}
