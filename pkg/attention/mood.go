package attention

import "strings"

// Mood is an attention judgment for one face.
type Mood string

const (
	MoodFocus      Mood = "Focus"
	MoodDistracted Mood = "Distracted"
	MoodSleepy     Mood = "Sleepy"
)

// Alertable reports whether a stable mood of this kind may trigger an alert.
func (m Mood) Alertable() bool {
	return m == MoodSleepy || m == MoodDistracted
}

// GazeDirection is the coarse direction reported by the gaze estimator.
type GazeDirection string

const (
	GazeCenter GazeDirection = "Center"
	GazeLeft   GazeDirection = "Left"
	GazeRight  GazeDirection = "Right"
	GazeDown   GazeDirection = "Down"
	GazeBlink  GazeDirection = "Blink"
)

// ParseGazeDirection maps a direction name (any case) to a GazeDirection.
// Unrecognised names map to GazeCenter.
func ParseGazeDirection(s string) GazeDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return GazeLeft
	case "right":
		return GazeRight
	case "down":
		return GazeDown
	case "blink":
		return GazeBlink
	default:
		return GazeCenter
	}
}

// UnmarshalText implements encoding.TextUnmarshaler so recordings and config
// accept any casing.
func (g *GazeDirection) UnmarshalText(text []byte) error {
	*g = ParseGazeDirection(string(text))
	return nil
}

// Classify maps one frame's raw signals to a transient mood.
//
// Rules, first match wins:
//  1. no gaze signal -> Sleepy
//  2. emotion "angry" (any case) -> Distracted
//  3. looking down or blinking -> Distracted
//  4. otherwise -> Focus
func Classify(emotion string, gazeAvailable bool, dir GazeDirection) Mood {
	if !gazeAvailable {
		return MoodSleepy
	}
	if strings.EqualFold(strings.TrimSpace(emotion), "angry") {
		return MoodDistracted
	}
	if dir == GazeDown || dir == GazeBlink {
		return MoodDistracted
	}
	return MoodFocus
}
