package pipeline

import (
	"context"
	"image"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/emotion"
	"github.com/teslashibe/go-focus/pkg/gaze"
)

// maxConcurrentClassify bounds in-flight emotion requests per frame.
const maxConcurrentClassify = 4

// Face is one detected face with its raw signals.
type Face struct {
	Box     image.Rectangle
	Gaze    gaze.Reading
	Emotion string
	crop    []byte
}

// Detection converts the face to the engine's input.
func (f Face) Detection() attention.Detection {
	return attention.Detection{
		Box:           attention.BoxFromRect(f.Box),
		Emotion:       f.Emotion,
		GazeAvailable: f.Gaze.Available,
		Gaze:          f.Gaze.Direction,
	}
}

// Detections converts faces to engine input in the same order.
func Detections(faces []Face) []attention.Detection {
	out := make([]attention.Detection, len(faces))
	for i, f := range faces {
		out[i] = f.Detection()
	}
	return out
}

// classifyAll labels every face concurrently. Each call gets its own timeout;
// a face whose classification fails or times out is labelled
// emotion.Unknown. The frame never fails because of a classifier.
func classifyAll(ctx context.Context, c emotion.Classifier, faces []Face, timeout time.Duration) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentClassify)

	for i := range faces {
		f := &faces[i]
		if len(f.crop) == 0 {
			f.Emotion = emotion.Unknown
			continue
		}
		g.Go(func() error {
			cctx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				cctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			label, err := c.Classify(cctx, f.crop)
			if err != nil {
				label = emotion.Unknown
			}
			f.Emotion = emotion.Normalize(label)
			return nil
		})
	}
	_ = g.Wait()
}
