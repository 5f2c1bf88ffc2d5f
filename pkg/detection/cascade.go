package detection

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Cascade detects frontal faces with a Haar cascade.
type Cascade struct {
	classifier gocv.CascadeClassifier
	config     Config
	mu         sync.Mutex
}

// NewCascade loads the cascade at cfg.CascadePath.
func NewCascade(cfg Config) (*Cascade, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cfg.CascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.CascadePath)
	}
	return &Cascade{classifier: classifier, config: cfg}, nil
}

// Detect runs the cascade on an equalised grayscale copy of frame.
func (c *Cascade) Detect(frame gocv.Mat) ([]Detection, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	gocv.EqualizeHist(gray, &gray)

	min := image.Pt(c.config.MinFaceSize, c.config.MinFaceSize)

	c.mu.Lock()
	rects := c.classifier.DetectMultiScaleWithParams(
		gray,
		c.config.ScaleFactor,
		c.config.MinNeighbors,
		0,
		min,
		image.Point{},
	)
	c.mu.Unlock()

	dets := make([]Detection, 0, len(rects))
	for _, r := range rects {
		dets = append(dets, Detection{Rect: r, Confidence: 1})
	}
	return dets, nil
}

// Close releases the classifier.
func (c *Cascade) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classifier.Close()
}

var _ Detector = (*Cascade)(nil)
