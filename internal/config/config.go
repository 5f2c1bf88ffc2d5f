// Package config loads go-focus settings from a TOML file.
//
// Values not present in the file keep their defaults. API keys and the camera
// device fall back to environment variables when the file leaves them empty.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/teslashibe/go-focus/pkg/attention"
)

//go:embed sample_config.toml
var sampleConfig string

// Tracking holds the identity matcher thresholds.
type Tracking struct {
	DistanceThreshold float64 `toml:"distance_threshold"`
	SizeDiffThreshold float64 `toml:"size_diff_threshold"`
	Anchor            string  `toml:"anchor"`
	MinFaceSize       int     `toml:"min_face_size"`
}

// Mood holds the debounce dwell.
type Mood struct {
	DurationSeconds float64 `toml:"duration_seconds"`
}

// Alert controls how alerts are voiced.
type Alert struct {
	IntervalSeconds float64 `toml:"interval_seconds"`
	Sink            string  `toml:"sink"`    // command, tts, log, none
	Command         string  `toml:"command"` // speech command for the command sink
	Player          string  `toml:"player"`  // audio player for the tts sink
	QueueSize       int     `toml:"queue_size"`
}

// Camera selects the capture source.
type Camera struct {
	Device  string `toml:"device"` // index ("0") or file/URL
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Mirror  bool   `toml:"mirror"`
	Window  bool   `toml:"window"`
	LockDir string `toml:"lock_dir"`
}

// Detector selects the face detector.
type Detector struct {
	Kind           string  `toml:"kind"` // cascade, yunet
	CascadePath    string  `toml:"cascade_path"`
	ModelPath      string  `toml:"model_path"`
	ScaleFactor    float64 `toml:"scale_factor"`
	MinNeighbors   int     `toml:"min_neighbors"`
	ScoreThreshold float64 `toml:"score_threshold"`
}

// Gaze configures the eye-based gaze estimator.
type Gaze struct {
	Enabled        bool    `toml:"enabled"`
	EyeCascadePath string  `toml:"eye_cascade_path"`
	LeftThreshold  float64 `toml:"left_threshold"`
	RightThreshold float64 `toml:"right_threshold"`
	DownThreshold  float64 `toml:"down_threshold"`
	BlinkThreshold float64 `toml:"blink_threshold"`
}

// Emotion selects the emotion classifier.
type Emotion struct {
	Provider       string  `toml:"provider"` // gemini, static
	Model          string  `toml:"model"`
	APIKey         string  `toml:"api_key"`
	StaticLabel    string  `toml:"static_label"`
	TimeoutSeconds float64 `toml:"timeout_seconds"`
}

// TTS configures speech synthesis for the tts alert sink.
type TTS struct {
	Provider string `toml:"provider"` // openai, elevenlabs
	APIKey   string `toml:"api_key"`
	Voice    string `toml:"voice"`
	Model    string `toml:"model"`
}

// Web configures the dashboard server.
type Web struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// Journal configures the sqlite session journal.
type Journal struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config is the full go-focus configuration.
type Config struct {
	Tracking Tracking `toml:"tracking"`
	Mood     Mood     `toml:"mood"`
	Alert    Alert    `toml:"alert"`
	Camera   Camera   `toml:"camera"`
	Detector Detector `toml:"detector"`
	Gaze     Gaze     `toml:"gaze"`
	Emotion  Emotion  `toml:"emotion"`
	TTS      TTS      `toml:"tts"`
	Web      Web      `toml:"web"`
	Journal  Journal  `toml:"journal"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Sample returns the commented sample configuration.
func Sample() string {
	return sampleConfig
}

// Load reads path (or the default location when empty), applies env
// fallbacks and validates. A missing file is not an error; the second return
// is the resolved path and the third whether it existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	if path == "" {
		path = defaultConfigPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, "", false, err
	}

	exists := true
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		exists = false
	case err != nil:
		return nil, "", false, fmt.Errorf("read config: %w", err)
	default:
		if err := Decode(data, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

// Decode parses TOML into cfg, rejecting unknown keys.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config: %s", strict.String())
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// Encode renders cfg as TOML.
func Encode(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// WriteSample writes the sample configuration to path, creating parent
// directories. It refuses to overwrite an existing file.
func WriteSample(path string) error {
	resolved, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(resolved); err == nil {
		return fmt.Errorf("config already exists at %s", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(resolved, []byte(sampleConfig), 0o644)
}

// Attention converts the tracking, mood and alert sections to the core
// engine configuration.
func (c *Config) Attention() attention.Config {
	return attention.Config{
		TrackingDistanceThreshold: c.Tracking.DistanceThreshold,
		SizeDiffThreshold:         c.Tracking.SizeDiffThreshold,
		MatchAnchor:               attention.Anchor(c.Tracking.Anchor),
		MinFaceSize:               c.Tracking.MinFaceSize,
		MoodDuration:              seconds(c.Mood.DurationSeconds),
		AlertInterval:             seconds(c.Alert.IntervalSeconds),
	}
}

// Redacted returns a copy with API keys masked, safe to print or serve.
func (c Config) Redacted() Config {
	c.Emotion.APIKey = mask(c.Emotion.APIKey)
	c.TTS.APIKey = mask(c.TTS.APIKey)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "********"
}

// EmotionTimeout returns the per-face classification budget.
func (c *Config) EmotionTimeout() time.Duration {
	return seconds(c.Emotion.TimeoutSeconds)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
