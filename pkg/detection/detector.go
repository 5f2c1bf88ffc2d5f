// Package detection finds faces in camera frames.
package detection

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Detector kinds accepted by New.
const (
	KindCascade = "cascade"
	KindYuNet   = "yunet"
)

var (
	// ErrModelNotFound is returned when a cascade or ONNX file cannot be loaded.
	ErrModelNotFound = errors.New("detection: model not found")

	// ErrUnknownKind is returned by New for an unsupported detector kind.
	ErrUnknownKind = errors.New("detection: unknown detector kind")
)

// Detection is a face found in a frame, in pixel coordinates.
type Detection struct {
	Rect       image.Rectangle
	Confidence float64 // 1 for detectors that do not score
}

// Detector is the interface for face detection backends
type Detector interface {
	// Detect finds faces in a BGR frame.
	Detect(frame gocv.Mat) ([]Detection, error)

	// Close releases resources
	Close() error
}

// Config holds detector configuration
type Config struct {
	Kind           string
	CascadePath    string  // Haar cascade XML for KindCascade
	ModelPath      string  // ONNX model for KindYuNet
	ScaleFactor    float64 // Cascade pyramid step
	MinNeighbors   int     // Cascade neighbour votes
	MinFaceSize    int     // Smallest face side in pixels
	ScoreThreshold float64 // YuNet minimum score
}

// DefaultConfig returns the cascade settings used for desk monitoring.
func DefaultConfig() Config {
	return Config{
		Kind:           KindCascade,
		CascadePath:    "haarcascade_frontalface_default.xml",
		ModelPath:      "face_detection_yunet_2023mar.onnx",
		ScaleFactor:    1.1,
		MinNeighbors:   5,
		MinFaceSize:    100,
		ScoreThreshold: 0.6,
	}
}

// New builds the detector selected by cfg.Kind.
func New(cfg Config) (Detector, error) {
	switch cfg.Kind {
	case KindCascade, "":
		d, err := NewCascade(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindYuNet:
		d, err := NewYuNet(cfg)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// FilterMinSize drops detections narrower or shorter than min pixels.
// The input order is kept.
func FilterMinSize(dets []Detection, min int) []Detection {
	out := dets[:0:0]
	for _, d := range dets {
		if d.Rect.Dx() >= min && d.Rect.Dy() >= min {
			out = append(out, d)
		}
	}
	return out
}

// ClampToFrame intersects every rectangle with the frame bounds and drops the
// ones left empty.
func ClampToFrame(dets []Detection, width, height int) []Detection {
	bounds := image.Rect(0, 0, width, height)
	out := dets[:0:0]
	for _, d := range dets {
		d.Rect = d.Rect.Intersect(bounds)
		if !d.Rect.Empty() {
			out = append(out, d)
		}
	}
	return out
}
