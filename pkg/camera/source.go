package camera

import (
	"errors"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ErrEndOfStream is returned by Read when the capture has no more frames.
var ErrEndOfStream = errors.New("camera: end of stream")

// Source is an open capture.
type Source struct {
	capture *gocv.VideoCapture
	config  Config
	live    bool
}

// Open starts capturing from cfg.Device.
func Open(cfg Config) (*Source, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("camera: invalid config: %v", errs)
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)
	id, live := cfg.DeviceIndex()
	if live {
		capture, err = gocv.VideoCaptureDevice(id)
	} else {
		capture, err = gocv.VideoCaptureFile(cfg.Device)
	}
	if err != nil {
		return nil, fmt.Errorf("camera: open %s: %w", cfg.Device, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("camera: open %s: device not available", cfg.Device)
	}

	if live && cfg.Width > 0 && cfg.Height > 0 {
		capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
		capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	}

	return &Source{capture: capture, config: cfg, live: live}, nil
}

// Read grabs the next frame into dst, mirrored when configured.
func (s *Source) Read(dst *gocv.Mat) error {
	if ok := s.capture.Read(dst); !ok || dst.Empty() {
		return ErrEndOfStream
	}
	if s.config.Mirror {
		gocv.Flip(*dst, dst, 1)
	}
	return nil
}

// Live reports whether the source is a camera device rather than a file.
func (s *Source) Live() bool {
	return s.live
}

// Size returns the frame size reported by the capture.
func (s *Source) Size() image.Point {
	return image.Pt(
		int(s.capture.Get(gocv.VideoCaptureFrameWidth)),
		int(s.capture.Get(gocv.VideoCaptureFrameHeight)),
	)
}

// FPS returns the capture frame rate, or 0 when unknown.
func (s *Source) FPS() float64 {
	return s.capture.Get(gocv.VideoCaptureFPS)
}

// Close releases the capture.
func (s *Source) Close() error {
	return s.capture.Close()
}

// EncodeJPEG encodes img at the given quality.
func EncodeJPEG(img gocv.Mat, quality int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, img, []int{gocv.IMWriteJpegQuality, quality})
	if err != nil {
		return nil, fmt.Errorf("camera: encode jpeg: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// EncodeRegion encodes the part of frame inside r, clipped to the frame.
func EncodeRegion(frame gocv.Mat, r image.Rectangle, quality int) ([]byte, error) {
	r = r.Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows()))
	if r.Empty() {
		return nil, fmt.Errorf("camera: region %v outside frame", r)
	}
	roi := frame.Region(r)
	defer roi.Close()
	return EncodeJPEG(roi, quality)
}
