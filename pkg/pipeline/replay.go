package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/recording"
)

// FrameReader yields recorded frames. recording.Reader implements it.
type FrameReader interface {
	Next() (recording.Frame, error)
}

// ReplayFunc receives each replayed frame with its engine result.
type ReplayFunc func(frame recording.Frame, now time.Time, res attention.FrameResult) error

// Replay feeds a recording through engine with simulated time: frame k is
// processed at start plus its recorded offset. It returns the number of
// frames replayed. A non-nil error from fn stops the replay and is returned.
func Replay(ctx context.Context, r FrameReader, engine *attention.Engine, start time.Time, fn ReplayFunc) (int, error) {
	n := 0
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		frame, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, err
		}

		now := start.Add(frame.Offset())
		res := engine.ProcessFrame(frame.Faces, now)
		n++
		if fn != nil {
			if err := fn(frame, now, res); err != nil {
				return n, err
			}
		}
	}
}
