// Package gaze estimates where a face is looking from its eyes.
//
// Pupils are located as the darkest point of each blurred eye region. The
// horizontal and vertical pupil ratios and the shape of the dark eye band feed
// Direction, which applies the Left, Right, Down, Blink precedence.
package gaze

import (
	"image"
	"sort"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-focus/pkg/attention"
)

// Thresholds decide the direction from pupil ratios.
//
// Ratios run from 0 at the left/top edge of the eye box to 1 at the
// right/bottom edge, in mirrored frame coordinates.
type Thresholds struct {
	Left  float64 // hRatio at or above this is Left
	Right float64 // hRatio at or below this is Right
	Down  float64 // vRatio at or above this is Down
	Blink float64 // band width/height above this is Blink
}

// DefaultThresholds returns the ratios used by the desk monitor.
func DefaultThresholds() Thresholds {
	return Thresholds{Left: 0.65, Right: 0.35, Down: 0.65, Blink: 3.8}
}

// Reading is the gaze signal for one face.
type Reading struct {
	Available  bool
	Direction  attention.GazeDirection
	Pupils     [2]image.Point // frame coordinates, left eye first
	HRatio     float64
	VRatio     float64
	BlinkRatio float64
}

// Estimator produces a gaze reading for a face inside a frame.
type Estimator interface {
	Estimate(frame gocv.Mat, face image.Rectangle) (Reading, error)
	Close() error
}

// Direction applies the precedence Left, Right, Down, Blink, else Center.
func Direction(hRatio, vRatio, blinkRatio float64, th Thresholds) attention.GazeDirection {
	switch {
	case hRatio >= th.Left:
		return attention.GazeLeft
	case hRatio <= th.Right:
		return attention.GazeRight
	case vRatio >= th.Down:
		return attention.GazeDown
	case blinkRatio > th.Blink:
		return attention.GazeBlink
	default:
		return attention.GazeCenter
	}
}

// Eye is one measured eye in face-local coordinates.
type Eye struct {
	Box        image.Rectangle
	Pupil      image.Point // relative to Box.Min
	BlinkRatio float64
}

// Ratios returns the pupil position inside the eye box, each in [0, 1].
func (e Eye) Ratios() (h, v float64) {
	w, ht := e.Box.Dx(), e.Box.Dy()
	if w <= 0 || ht <= 0 {
		return 0.5, 0.5
	}
	return float64(e.Pupil.X) / float64(w), float64(e.Pupil.Y) / float64(ht)
}

// Combine averages two eyes into a reading. Pupils are translated by origin
// into frame coordinates.
func Combine(left, right Eye, origin image.Point, th Thresholds) Reading {
	lh, lv := left.Ratios()
	rh, rv := right.Ratios()
	h := (lh + rh) / 2
	v := (lv + rv) / 2
	blink := (left.BlinkRatio + right.BlinkRatio) / 2

	return Reading{
		Available:  true,
		Direction:  Direction(h, v, blink, th),
		Pupils:     [2]image.Point{origin.Add(left.Box.Min).Add(left.Pupil), origin.Add(right.Box.Min).Add(right.Pupil)},
		HRatio:     h,
		VRatio:     v,
		BlinkRatio: blink,
	}
}

// PickEyes keeps the two largest candidate boxes and returns them ordered
// left to right. ok is false with fewer than two candidates.
func PickEyes(boxes []image.Rectangle) (left, right image.Rectangle, ok bool) {
	if len(boxes) < 2 {
		return image.Rectangle{}, image.Rectangle{}, false
	}
	sorted := append([]image.Rectangle(nil), boxes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return area(sorted[i]) > area(sorted[j])
	})
	a, b := sorted[0], sorted[1]
	if b.Min.X < a.Min.X {
		a, b = b, a
	}
	return a, b, true
}

func area(r image.Rectangle) int {
	return r.Dx() * r.Dy()
}

// Static reports a fixed reading for every face. It stands in when gaze
// estimation is disabled.
type Static struct {
	Reading Reading
}

// NewStatic returns an estimator that always sees an available, centred gaze.
func NewStatic() *Static {
	return &Static{Reading: Reading{Available: true, Direction: attention.GazeCenter}}
}

// Estimate returns the fixed reading.
func (s *Static) Estimate(gocv.Mat, image.Rectangle) (Reading, error) {
	return s.Reading, nil
}

// Close is a no-op.
func (s *Static) Close() error { return nil }

var _ Estimator = (*Static)(nil)
