package attention

import (
	"log/slog"
	"time"
)

// Engine runs the per-frame attention pipeline over a track store.
//
// An Engine is not safe for concurrent use. Frames must be processed one at a
// time; each call runs to completion before the next one starts.
type Engine struct {
	config    Config
	store     *Store
	matcher   *Matcher
	debouncer Debouncer
	throttler Throttler
	logger    *slog.Logger

	frames int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine validates cfg and creates an engine with an empty store.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		config:    cfg,
		store:     NewStore(),
		matcher:   NewMatcher(cfg),
		debouncer: NewDebouncer(cfg.MoodDuration),
		throttler: NewThrottler(cfg.AlertInterval),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "attention")
	return e, nil
}

// ProcessFrame runs one frame: match detections to tracks, then classify,
// debounce and throttle every live track. now is shared by every track.
//
// Detections without a positive size, or smaller than MinFaceSize in either
// dimension, are skipped. An empty frame drops every track.
func (e *Engine) ProcessFrame(dets []Detection, now time.Time) FrameResult {
	e.frames++

	kept := make([]Detection, 0, len(dets))
	boxes := make([]Box, 0, len(dets))
	for _, d := range dets {
		if !d.Box.Valid() || d.Box.W < e.config.MinFaceSize || d.Box.H < e.config.MinFaceSize {
			continue
		}
		kept = append(kept, d)
		boxes = append(boxes, d.Box)
	}

	match := e.matcher.Match(e.store, boxes, now)

	for _, id := range match.Created {
		e.logger.Debug("track created", "track", id, "frame", e.frames)
	}
	for _, id := range match.Dropped {
		e.logger.Debug("track dropped", "track", id, "frame", e.frames)
	}

	result := FrameResult{
		Time:    now,
		Tracks:  make([]TrackResult, 0, len(kept)),
		Created: match.Created,
		Dropped: match.Dropped,
	}

	for i, d := range kept {
		t, _ := e.store.Get(match.Assigned[i])

		transient := Classify(d.Emotion, d.GazeAvailable, d.Gaze)
		changed := e.debouncer.Update(t, transient, now)
		alert := e.throttler.Evaluate(t, now)

		if changed {
			e.logger.Debug("stable mood changed", "track", t.ID, "mood", t.StableMood)
		}

		result.Tracks = append(result.Tracks, TrackResult{
			ID:            t.ID,
			Box:           t.Box,
			Emotion:       d.Emotion,
			TransientMood: t.TransientMood,
			StableMood:    t.StableMood,
			StableChanged: changed,
			Alert:         alert,
		})
	}

	return result
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Frames returns the number of frames processed so far.
func (e *Engine) Frames() int64 {
	return e.frames
}
