package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.applyEnv()

	var err error
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	if c.Camera.LockDir, err = expandPath(c.Camera.LockDir); err != nil {
		return fmt.Errorf("camera.lock_dir: %w", err)
	}

	c.Tracking.Anchor = strings.ToLower(strings.TrimSpace(c.Tracking.Anchor))
	c.Detector.Kind = strings.ToLower(strings.TrimSpace(c.Detector.Kind))
	c.Emotion.Provider = strings.ToLower(strings.TrimSpace(c.Emotion.Provider))
	c.TTS.Provider = strings.ToLower(strings.TrimSpace(c.TTS.Provider))
	c.Alert.Sink = strings.ToLower(strings.TrimSpace(c.Alert.Sink))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	return nil
}

func (c *Config) applyEnv() {
	if c.Emotion.APIKey == "" {
		c.Emotion.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	if c.TTS.APIKey == "" {
		switch c.TTS.Provider {
		case "elevenlabs":
			c.TTS.APIKey = os.Getenv("ELEVENLABS_API_KEY")
		default:
			c.TTS.APIKey = os.Getenv("OPENAI_API_KEY")
		}
	}
	if dev, ok := os.LookupEnv("FOCUS_CAMERA"); ok && strings.TrimSpace(dev) != "" {
		c.Camera.Device = strings.TrimSpace(dev)
	}
}
