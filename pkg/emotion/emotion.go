// Package emotion labels the dominant facial expression of a face crop.
package emotion

import (
	"context"
	"strings"
)

// Unknown is reported when classification fails or the answer is not a
// recognised label.
const Unknown = "Unknown"

// Labels are the recognised expressions in display form.
var Labels = []string{"Angry", "Disgust", "Fear", "Happy", "Sad", "Surprise", "Neutral"}

// Classifier labels one face crop.
type Classifier interface {
	// Classify returns a display label for a JPEG-encoded face crop.
	Classify(ctx context.Context, face []byte) (string, error)
}

// Normalize maps a free-form answer to a display label. Matching ignores case
// and surrounding punctuation; anything unrecognised becomes Unknown.
func Normalize(raw string) string {
	word := strings.ToLower(strings.Trim(strings.TrimSpace(raw), ".,!\"'`*"))
	switch word {
	case "angry", "anger":
		return "Angry"
	case "disgust", "disgusted":
		return "Disgust"
	case "fear", "fearful", "scared":
		return "Fear"
	case "happy", "happiness":
		return "Happy"
	case "sad", "sadness":
		return "Sad"
	case "surprise", "surprised":
		return "Surprise"
	case "neutral":
		return "Neutral"
	default:
		return Unknown
	}
}

// Static always reports the same label.
type Static struct {
	Label string
}

// NewStatic returns a classifier that reports label, normalised.
func NewStatic(label string) *Static {
	return &Static{Label: Normalize(label)}
}

// Classify returns the fixed label.
func (s *Static) Classify(context.Context, []byte) (string, error) {
	return s.Label, nil
}

var _ Classifier = (*Static)(nil)
