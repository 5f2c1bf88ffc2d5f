package attention

import (
	"fmt"
	"math"
	"time"
)

// Anchor selects which point of a box the matcher measures distance from.
type Anchor string

const (
	AnchorCorner Anchor = "corner" // Top-left corner
	AnchorCenter Anchor = "center" // Box centre
)

// Default thresholds.
const (
	DefaultTrackingDistance = 50.0
	DefaultSizeDiff         = 100.0
	DefaultMinFaceSize      = 100
	DefaultMoodDuration     = 3 * time.Second
	DefaultAlertInterval    = 5 * time.Second
)

// Config holds the thresholds for tracking, debouncing and throttling.
type Config struct {
	// Matching
	TrackingDistanceThreshold float64 // Max anchor distance in pixels (exclusive)
	SizeDiffThreshold         float64 // Max |dw|+|dh| in pixels (exclusive)
	MatchAnchor               Anchor  // Point used for the distance gate

	// Input filtering
	MinFaceSize int // Boxes narrower or shorter than this are ignored

	// Mood
	MoodDuration time.Duration // Dwell before the stable mood follows the transient one

	// Alerts
	AlertInterval time.Duration // Minimum spacing between alerts for one track
}

// DefaultConfig returns the thresholds used by the desk monitor.
func DefaultConfig() Config {
	return Config{
		TrackingDistanceThreshold: DefaultTrackingDistance,
		SizeDiffThreshold:         DefaultSizeDiff,
		MatchAnchor:               AnchorCorner,
		MinFaceSize:               DefaultMinFaceSize,
		MoodDuration:              DefaultMoodDuration,
		AlertInterval:             DefaultAlertInterval,
	}
}

// Validate checks that every threshold is usable.
func (c Config) Validate() error {
	// NaN compares false against everything and would disable the gates.
	if !finite(c.TrackingDistanceThreshold) {
		return fmt.Errorf("%w: tracking distance threshold %v", ErrNonFiniteThreshold, c.TrackingDistanceThreshold)
	}
	if !finite(c.SizeDiffThreshold) {
		return fmt.Errorf("%w: size diff threshold %v", ErrNonFiniteThreshold, c.SizeDiffThreshold)
	}
	if c.TrackingDistanceThreshold < 0 {
		return fmt.Errorf("%w: tracking distance threshold %v", ErrNegativeThreshold, c.TrackingDistanceThreshold)
	}
	if c.SizeDiffThreshold < 0 {
		return fmt.Errorf("%w: size diff threshold %v", ErrNegativeThreshold, c.SizeDiffThreshold)
	}
	if c.MinFaceSize < 0 {
		return fmt.Errorf("%w: min face size %d", ErrNegativeThreshold, c.MinFaceSize)
	}
	if c.MoodDuration < 0 {
		return fmt.Errorf("%w: mood duration %v", ErrNegativeThreshold, c.MoodDuration)
	}
	if c.AlertInterval < 0 {
		return fmt.Errorf("%w: alert interval %v", ErrNegativeThreshold, c.AlertInterval)
	}
	switch c.MatchAnchor {
	case AnchorCorner, AnchorCenter:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAnchor, c.MatchAnchor)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
