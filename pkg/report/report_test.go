package report

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/journal"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func sec(n float64) time.Time {
	return t0.Add(time.Duration(n * float64(time.Second)))
}

func TestSummarize_Timelines(t *testing.T) {
	session := journal.Session{ID: "s", StartedAt: t0, EndedAt: sec(20)}
	events := []journal.Event{
		{TrackID: 0, Kind: journal.EventCreated, Mood: attention.MoodFocus, At: sec(0)},
		{TrackID: 0, Kind: journal.EventMood, Mood: attention.MoodSleepy, At: sec(4)},
		{TrackID: 1, Kind: journal.EventCreated, Mood: attention.MoodFocus, At: sec(5)},
		{TrackID: 0, Kind: journal.EventMood, Mood: attention.MoodFocus, At: sec(10)},
		{TrackID: 0, Kind: journal.EventDropped, At: sec(12)},
	}
	alerts := []journal.AlertRecord{
		{TrackID: 0, Kind: attention.AlertSleepy, At: sec(4)},
		{TrackID: 0, Kind: attention.AlertSleepy, At: sec(9)},
	}

	got := Summarize(session, events, alerts)

	want := []Track{
		{
			ID:    0,
			First: sec(0),
			Last:  sec(12),
			Time: map[attention.Mood]time.Duration{
				attention.MoodFocus:  6 * time.Second,
				attention.MoodSleepy: 6 * time.Second,
			},
			Alerts: map[attention.AlertKind]int{attention.AlertSleepy: 2},
		},
		{
			ID:     1,
			First:  sec(5),
			Last:   sec(20),
			Time:   map[attention.Mood]time.Duration{attention.MoodFocus: 15 * time.Second},
			Alerts: map[attention.AlertKind]int{},
		},
	}
	if diff := cmp.Diff(want, got.Tracks); diff != "" {
		t.Errorf("Tracks mismatch (-want +got):\n%s", diff)
	}
	if got.TotalAlerts() != 2 {
		t.Errorf("TotalAlerts() = %d, want 2", got.TotalAlerts())
	}

	// Track 0: 12s at 0.5 focus, track 1: 15s at 1.0 focus.
	wantMean := (12*0.5 + 15*1.0) / 27
	if math.Abs(got.MeanFocus-wantMean) > 1e-9 {
		t.Errorf("MeanFocus = %v, want %v", got.MeanFocus, wantMean)
	}
	// Sample standard deviation of {0.5, 1.0}.
	wantStd := math.Sqrt(0.125)
	if math.Abs(got.FocusStdDev-wantStd) > 1e-9 {
		t.Errorf("FocusStdDev = %v, want %v", got.FocusStdDev, wantStd)
	}
}

func TestSummarize_ActiveSessionEndsAtLastEvent(t *testing.T) {
	session := journal.Session{ID: "s", StartedAt: t0}
	events := []journal.Event{
		{TrackID: 2, Kind: journal.EventCreated, Mood: attention.MoodFocus, At: sec(0)},
		{TrackID: 2, Kind: journal.EventMood, Mood: attention.MoodDistracted, At: sec(3)},
	}
	alerts := []journal.AlertRecord{
		{TrackID: 2, Kind: attention.AlertDistracted, At: sec(7)},
	}

	got := Summarize(session, events, alerts)
	if len(got.Tracks) != 1 {
		t.Fatalf("Tracks = %d, want 1", len(got.Tracks))
	}
	tr := got.Tracks[0]
	if tr.Last != sec(7) {
		t.Errorf("Last = %v, want %v", tr.Last, sec(7))
	}
	if tr.Time[attention.MoodDistracted] != 4*time.Second {
		t.Errorf("Distracted time = %v, want 4s", tr.Time[attention.MoodDistracted])
	}
	if math.Abs(tr.FocusRatio()-3.0/7.0) > 1e-9 {
		t.Errorf("FocusRatio() = %v, want %v", tr.FocusRatio(), 3.0/7.0)
	}
	if got.FocusStdDev != 0 {
		t.Errorf("FocusStdDev = %v, want 0 for a single track", got.FocusStdDev)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(journal.Session{StartedAt: t0}, nil, nil)
	if len(got.Tracks) != 0 || got.MeanFocus != 0 || got.TotalAlerts() != 0 {
		t.Errorf("Summarize(empty) = %+v", got)
	}
}

func TestTrack_FocusRatioZeroDuration(t *testing.T) {
	tr := Track{First: t0, Last: t0}
	if r := tr.FocusRatio(); r != 0 {
		t.Errorf("FocusRatio() = %v, want 0", r)
	}
}
