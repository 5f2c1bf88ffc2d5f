// Package camera reads frames from a webcam or a video file.
package camera

import (
	"strconv"
	"strings"
)

// Config holds capture settings.
type Config struct {
	Device  string `json:"device"`  // Device index ("0") or file path/URL
	Width   int    `json:"width"`   // Requested frame width, 0 keeps the driver default
	Height  int    `json:"height"`  // Requested frame height
	Mirror  bool   `json:"mirror"`  // Flip horizontally so the preview reads like a mirror
	Quality int    `json:"quality"` // JPEG quality 1-100 for encoded frames
}

// DefaultConfig returns a 1280x720 mirrored capture from the first camera.
func DefaultConfig() Config {
	return Config{
		Device:  "0",
		Width:   1280,
		Height:  720,
		Mirror:  true,
		Quality: 80,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Device) == "" {
		errs = append(errs, "device must be set")
	}
	if c.Width < 0 || c.Height < 0 {
		errs = append(errs, "width and height must not be negative")
	}
	if c.Quality < 1 || c.Quality > 100 {
		errs = append(errs, "quality must be between 1 and 100")
	}
	return errs
}

// DeviceIndex reports whether Device names a camera index rather than a file.
func (c *Config) DeviceIndex() (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(c.Device))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// LockName returns a file-system safe name identifying the device, used for
// the per-camera lock file.
func (c *Config) LockName() string {
	if id, ok := c.DeviceIndex(); ok {
		return "camera-" + strconv.Itoa(id) + ".lock"
	}
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", " ", "_")
	return "camera-" + r.Replace(strings.TrimSpace(c.Device)) + ".lock"
}
