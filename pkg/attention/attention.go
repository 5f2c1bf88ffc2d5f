// Package attention turns per-frame face detections into stable, per-identity
// attention judgments with rate-limited alerts.
//
// Each call to Engine.ProcessFrame runs one pass of:
//
//	match boxes to tracks -> classify raw signals -> debounce mood -> throttle alerts
//
// The package performs no I/O. Detection, emotion and gaze models, capture and
// alert delivery live outside it and hand in pre-computed signals.
package attention

import (
	"image"
	"time"
)

// Box is an axis-aligned rectangle in frame pixel coordinates.
type Box struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// BoxFromRect converts an image.Rectangle to a Box.
func BoxFromRect(r image.Rectangle) Box {
	r = r.Canon()
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Rect returns the box as an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Center returns the center point of the box
func (b Box) Center() (x, y float64) {
	return float64(b.X) + float64(b.W)/2, float64(b.Y) + float64(b.H)/2
}

// Valid reports whether the box has a positive width and height.
func (b Box) Valid() bool {
	return b.W > 0 && b.H > 0
}

// Track is one tracked face identity.
type Track struct {
	ID            int       // Unique, never reused within a process
	Box           Box       // Box from the most recent matching frame
	TransientMood Mood      // Mood from the latest frame's signals alone
	StableMood    Mood      // Debounced mood reported to callers
	MoodSince     time.Time // When TransientMood last changed
	LastAlertAt   time.Time // Zero when no cooldown is active
}

// CoolingDown reports whether an alert cooldown is active.
func (t *Track) CoolingDown() bool {
	return !t.LastAlertAt.IsZero()
}

// Detection is one face observed in a frame together with its raw signals.
// The caller associates signals with boxes before handing them to the engine.
type Detection struct {
	Box           Box           `json:"box"`
	Emotion       string        `json:"emotion"`
	GazeAvailable bool          `json:"gaze_available"`
	Gaze          GazeDirection `json:"gaze,omitempty"`
}

// TrackResult is the per-track outcome of one frame.
type TrackResult struct {
	ID            int       `json:"id"`
	Box           Box       `json:"box"`
	Emotion       string    `json:"emotion"`
	TransientMood Mood      `json:"transient_mood"`
	StableMood    Mood      `json:"stable_mood"`
	StableChanged bool      `json:"stable_changed,omitempty"`
	Alert         AlertKind `json:"alert,omitempty"`
}

// Fired reports whether an alert fired for this track in the frame.
func (r TrackResult) Fired() bool {
	return r.Alert != AlertNone
}

// FrameResult is the outcome of processing one frame.
type FrameResult struct {
	Time    time.Time     `json:"time"`
	Tracks  []TrackResult `json:"tracks"`  // One entry per live track, in detection order
	Created []int         `json:"created"` // Tracks created this frame
	Dropped []int         `json:"dropped"` // Tracks removed this frame
}

// Alerts returns the tracks whose alert fired in this frame.
func (r FrameResult) Alerts() []TrackResult {
	var fired []TrackResult
	for _, t := range r.Tracks {
		if t.Fired() {
			fired = append(fired, t)
		}
	}
	return fired
}
