package attention

import "time"

// Debouncer lets a track's stable mood follow its transient mood only after
// the transient mood has held for the dwell duration. Changes in both
// directions wait the same dwell.
type Debouncer struct {
	dwell time.Duration
}

// NewDebouncer creates a debouncer with the given dwell duration.
func NewDebouncer(dwell time.Duration) Debouncer {
	return Debouncer{dwell: dwell}
}

// Update records this frame's transient mood on t and reports whether the
// stable mood changed.
func (d Debouncer) Update(t *Track, transient Mood, now time.Time) bool {
	if transient != t.TransientMood {
		t.TransientMood = transient
		t.MoodSince = now
	}

	if now.Sub(t.MoodSince) < d.dwell {
		return false
	}

	changed := t.StableMood != transient
	t.StableMood = transient
	return changed
}
