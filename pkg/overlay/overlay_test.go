package overlay

import (
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/teslashibe/go-focus/pkg/attention"
)

func TestFace_Lines(t *testing.T) {
	f := Face{
		GazeAvailable: false,
		Gaze:          attention.GazeBlink,
		Emotion:       "Happy",
		TransientMood: attention.MoodSleepy,
		StableMood:    attention.MoodFocus,
	}
	want := [5]string{
		"Gaze: Lost",
		"Direction: Blink",
		"Emotion: Happy",
		"Temp Mood: Sleepy",
		"Final Mood: Focus",
	}
	if diff := cmp.Diff(want, f.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestTextOrigin(t *testing.T) {
	tests := []struct {
		box  image.Rectangle
		want image.Point
	}{
		{image.Rect(100, 400, 300, 600), image.Pt(100, 265)},
		{image.Rect(50, 40, 250, 240), image.Pt(50, 0)},
	}
	for _, tc := range tests {
		if got := TextOrigin(tc.box, 5); got != tc.want {
			t.Errorf("TextOrigin(%v) = %v, want %v", tc.box, got, tc.want)
		}
	}
}

func TestCorners(t *testing.T) {
	c := Corners(image.Rect(0, 0, 200, 120))

	// arm = 120/4 = 30
	if c[0] != [2]image.Point{{0, 0}, {30, 0}} {
		t.Errorf("top-left horizontal = %v", c[0])
	}
	if c[7] != [2]image.Point{{200, 120}, {200, 90}} {
		t.Errorf("bottom-right vertical = %v", c[7])
	}
}

func TestIsQuitKey(t *testing.T) {
	if !IsQuitKey('q') || !IsQuitKey(0x100|'q') {
		t.Error("q should quit")
	}
	if IsQuitKey(-1) || IsQuitKey('Q') || IsQuitKey('x') {
		t.Error("only q should quit")
	}
}
