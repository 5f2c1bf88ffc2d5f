// Package alert voices attention alerts.
//
// The engine decides when an alert fires; this package decides how it is
// heard. Sinks deliver one alert at a time and a Dispatcher keeps slow sinks
// off the frame loop.
package alert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/teslashibe/go-focus/pkg/attention"
)

// ErrQueueFull is returned by Dispatcher.Submit when the alert was dropped.
var ErrQueueFull = errors.New("alert: queue full")

// ErrClosed is returned by Dispatcher.Submit after Close.
var ErrClosed = errors.New("alert: dispatcher closed")

// Alert is one fired alert.
type Alert struct {
	TrackID int                 `json:"track_id"`
	Kind    attention.AlertKind `json:"kind"`
	At      time.Time           `json:"at"`
}

// Message returns the phrase for the alert.
func (a Alert) Message() string {
	return a.Kind.Message()
}

// FromFrame extracts the alerts fired in a frame result.
func FromFrame(res attention.FrameResult) []Alert {
	var out []Alert
	for _, tr := range res.Tracks {
		if tr.Fired() {
			out = append(out, Alert{TrackID: tr.ID, Kind: tr.Alert, At: res.Time})
		}
	}
	return out
}

// Sink delivers an alert to the user.
type Sink interface {
	Deliver(ctx context.Context, a Alert) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, a Alert) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, a Alert) error {
	return f(ctx, a)
}

// Log writes alerts to a structured logger.
type Log struct {
	logger *slog.Logger
}

// NewLog returns a sink that logs each alert at warn level.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger.With("component", "alert")}
}

// Deliver logs the alert.
func (l *Log) Deliver(_ context.Context, a Alert) error {
	l.logger.Warn(a.Message(), "track", a.TrackID, "kind", a.Kind)
	return nil
}

// Discard drops every alert.
type Discard struct{}

// Deliver does nothing.
func (Discard) Deliver(context.Context, Alert) error { return nil }

// Multi delivers to every sink and returns the joined errors.
type Multi []Sink

// Deliver fans the alert out to every sink in order.
func (m Multi) Deliver(ctx context.Context, a Alert) error {
	var errs []error
	for _, s := range m {
		if err := s.Deliver(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Sink = (*Log)(nil)
	_ Sink = Discard{}
	_ Sink = Multi(nil)
	_ Sink = SinkFunc(nil)
)
