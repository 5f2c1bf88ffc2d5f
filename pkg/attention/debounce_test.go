package attention

import (
	"testing"
	"time"
)

func newTrack(now time.Time) *Track {
	return NewStore().Create(face(0, 0), now)
}

func TestDebouncer_FlickerNeverChangesStable(t *testing.T) {
	d := NewDebouncer(3 * time.Second)
	tr := newTrack(t0)

	moods := []Mood{MoodSleepy, MoodDistracted, MoodFocus}
	for i := 0; i < 200; i++ {
		now := t0.Add(time.Duration(i) * 100 * time.Millisecond)
		// Never the same transient mood two frames running
		d.Update(tr, moods[i%len(moods)], now)
		if tr.StableMood != MoodFocus {
			t.Fatalf("frame %d: StableMood = %q, want Focus", i, tr.StableMood)
		}
	}
}

func TestDebouncer_TriggersAtBoundary(t *testing.T) {
	d := NewDebouncer(3 * time.Second)
	tr := newTrack(t0)

	for i := 0; i <= 40; i++ {
		now := t0.Add(time.Duration(i) * 100 * time.Millisecond)
		changed := d.Update(tr, MoodSleepy, now)

		switch {
		case i < 30:
			if tr.StableMood != MoodFocus || changed {
				t.Fatalf("at %v: StableMood = %q changed=%v, want Focus before boundary",
					now.Sub(t0), tr.StableMood, changed)
			}
		case i == 30:
			if tr.StableMood != MoodSleepy || !changed {
				t.Fatalf("at %v: StableMood = %q changed=%v, want Sleepy on boundary",
					now.Sub(t0), tr.StableMood, changed)
			}
		default:
			if tr.StableMood != MoodSleepy || changed {
				t.Fatalf("at %v: StableMood = %q changed=%v, want steady Sleepy",
					now.Sub(t0), tr.StableMood, changed)
			}
		}
	}
}

func TestDebouncer_FirstFrameAfterBoundary(t *testing.T) {
	d := NewDebouncer(3 * time.Second)
	tr := newTrack(t0)

	d.Update(tr, MoodSleepy, t0)
	d.Update(tr, MoodSleepy, t0.Add(2900*time.Millisecond))
	if tr.StableMood != MoodFocus {
		t.Fatalf("StableMood = %q at 2.9s, want Focus", tr.StableMood)
	}

	// Frames can be irregular; the first one past the boundary flips it.
	d.Update(tr, MoodSleepy, t0.Add(3400*time.Millisecond))
	if tr.StableMood != MoodSleepy {
		t.Errorf("StableMood = %q at 3.4s, want Sleepy", tr.StableMood)
	}
}

func TestDebouncer_RecoveryIsDebounced(t *testing.T) {
	d := NewDebouncer(3 * time.Second)
	tr := newTrack(t0)

	d.Update(tr, MoodDistracted, t0)
	d.Update(tr, MoodDistracted, t0.Add(3*time.Second))
	if tr.StableMood != MoodDistracted {
		t.Fatalf("StableMood = %q, want Distracted", tr.StableMood)
	}

	// Focus for less than the dwell keeps the alarmed state
	d.Update(tr, MoodFocus, t0.Add(4*time.Second))
	d.Update(tr, MoodFocus, t0.Add(6*time.Second))
	if tr.StableMood != MoodDistracted {
		t.Errorf("StableMood = %q after 2s of focus, want Distracted", tr.StableMood)
	}

	d.Update(tr, MoodFocus, t0.Add(7*time.Second))
	if tr.StableMood != MoodFocus {
		t.Errorf("StableMood = %q after 3s of focus, want Focus", tr.StableMood)
	}
}

func TestDebouncer_MoodSinceOnlyMovesOnChange(t *testing.T) {
	d := NewDebouncer(3 * time.Second)
	tr := newTrack(t0)

	d.Update(tr, MoodSleepy, t0.Add(time.Second))
	since := tr.MoodSince
	d.Update(tr, MoodSleepy, t0.Add(2*time.Second))
	d.Update(tr, MoodSleepy, t0.Add(3*time.Second))

	if !tr.MoodSince.Equal(since) {
		t.Errorf("MoodSince moved from %v to %v without a mood change", since, tr.MoodSince)
	}

	d.Update(tr, MoodFocus, t0.Add(4*time.Second))
	if !tr.MoodSince.Equal(t0.Add(4 * time.Second)) {
		t.Errorf("MoodSince = %v, want reset on change", tr.MoodSince)
	}
}

func TestDebouncer_ZeroDwellFollowsImmediately(t *testing.T) {
	d := NewDebouncer(0)
	tr := newTrack(t0)

	if !d.Update(tr, MoodSleepy, t0) {
		t.Error("Update() = false, want immediate change with zero dwell")
	}
	if tr.StableMood != MoodSleepy {
		t.Errorf("StableMood = %q, want Sleepy", tr.StableMood)
	}
}
