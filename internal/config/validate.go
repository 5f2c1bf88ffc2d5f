package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// maxSeconds is the longest span a time.Duration can hold.
const maxSeconds = float64(math.MaxInt64) / float64(time.Second)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateNumbers(); err != nil {
		return err
	}
	if err := c.Attention().Validate(); err != nil {
		return fmt.Errorf("tracking/mood/alert: %w", err)
	}
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateDetector(); err != nil {
		return err
	}
	if err := c.validateGaze(); err != nil {
		return err
	}
	if err := c.validateEmotion(); err != nil {
		return err
	}
	if err := c.validateAlert(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// validateNumbers rejects NaN and infinite floats before any comparison or
// duration conversion sees them. TOML accepts nan and inf literals.
func (c *Config) validateNumbers() error {
	floats := []struct {
		key string
		v   float64
	}{
		{"tracking.distance_threshold", c.Tracking.DistanceThreshold},
		{"tracking.size_diff_threshold", c.Tracking.SizeDiffThreshold},
		{"detector.scale_factor", c.Detector.ScaleFactor},
		{"detector.score_threshold", c.Detector.ScoreThreshold},
		{"gaze.left_threshold", c.Gaze.LeftThreshold},
		{"gaze.right_threshold", c.Gaze.RightThreshold},
		{"gaze.down_threshold", c.Gaze.DownThreshold},
		{"gaze.blink_threshold", c.Gaze.BlinkThreshold},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be a finite number, got %v", f.key, f.v)
		}
	}

	spans := []struct {
		key string
		v   float64
	}{
		{"mood.duration_seconds", c.Mood.DurationSeconds},
		{"alert.interval_seconds", c.Alert.IntervalSeconds},
		{"emotion.timeout_seconds", c.Emotion.TimeoutSeconds},
	}
	for _, s := range spans {
		if math.IsNaN(s.v) || math.IsInf(s.v, 0) || math.Abs(s.v) > maxSeconds {
			return fmt.Errorf("%s must be a finite number of seconds, got %v", s.key, s.v)
		}
	}
	return nil
}

func (c *Config) validateCamera() error {
	if c.Camera.Device == "" {
		return errors.New("camera.device must be set")
	}
	if c.Camera.Width < 0 || c.Camera.Height < 0 {
		return errors.New("camera.width and camera.height must not be negative")
	}
	return nil
}

func (c *Config) validateDetector() error {
	switch c.Detector.Kind {
	case "cascade":
		if c.Detector.ScaleFactor <= 1 {
			return errors.New("detector.scale_factor must be greater than 1")
		}
		if c.Detector.MinNeighbors < 0 {
			return errors.New("detector.min_neighbors must not be negative")
		}
	case "yunet":
		if c.Detector.ModelPath == "" {
			return errors.New("detector.model_path must be set for the yunet detector")
		}
		if c.Detector.ScoreThreshold < 0 || c.Detector.ScoreThreshold > 1 {
			return errors.New("detector.score_threshold must be between 0 and 1")
		}
	default:
		return fmt.Errorf("detector.kind %q is not one of cascade, yunet", c.Detector.Kind)
	}
	return nil
}

func (c *Config) validateGaze() error {
	if !c.Gaze.Enabled {
		return nil
	}
	g := c.Gaze
	if g.RightThreshold < 0 || g.LeftThreshold > 1 || g.RightThreshold >= g.LeftThreshold {
		return errors.New("gaze thresholds must satisfy 0 <= right_threshold < left_threshold <= 1")
	}
	if g.DownThreshold <= 0 || g.DownThreshold > 1 {
		return errors.New("gaze.down_threshold must be in (0, 1]")
	}
	if g.BlinkThreshold <= 0 {
		return errors.New("gaze.blink_threshold must be positive")
	}
	return nil
}

func (c *Config) validateEmotion() error {
	switch c.Emotion.Provider {
	case "static":
	case "gemini":
		if c.Emotion.APIKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = defaultConfigPath
			}
			return fmt.Errorf("emotion.api_key is required for gemini. Set GOOGLE_API_KEY or edit %s", defaultPath)
		}
	default:
		return fmt.Errorf("emotion.provider %q is not one of gemini, static", c.Emotion.Provider)
	}
	if c.Emotion.TimeoutSeconds <= 0 {
		return errors.New("emotion.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateAlert() error {
	switch c.Alert.Sink {
	case "none", "log":
	case "command":
		if c.Alert.Command == "" {
			return errors.New("alert.command must be set for the command sink")
		}
	case "tts":
		if !slices.Contains([]string{"openai", "elevenlabs"}, c.TTS.Provider) {
			return fmt.Errorf("tts.provider %q is not one of openai, elevenlabs", c.TTS.Provider)
		}
		if c.TTS.APIKey == "" {
			return errors.New("tts.api_key is required for the tts alert sink")
		}
		if c.Alert.Player == "" {
			return errors.New("alert.player must be set for the tts sink")
		}
	default:
		return fmt.Errorf("alert.sink %q is not one of command, tts, log, none", c.Alert.Sink)
	}
	if c.Alert.QueueSize < 1 {
		return errors.New("alert.queue_size must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if !slices.Contains([]string{"text", "json", "auto"}, c.Logging.Format) {
		return fmt.Errorf("logging.format %q is not one of text, json, auto", c.Logging.Format)
	}
	return nil
}
