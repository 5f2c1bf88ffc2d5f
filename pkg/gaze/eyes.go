package gaze

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// ErrCascadeNotFound is returned when the eye cascade cannot be loaded.
var ErrCascadeNotFound = errors.New("gaze: eye cascade not found")

// EyeEstimator finds eyes with a Haar cascade in the upper half of a face.
type EyeEstimator struct {
	classifier gocv.CascadeClassifier
	thresholds Thresholds
	mu         sync.Mutex
}

// NewEyeEstimator loads the eye cascade at path.
func NewEyeEstimator(path string, th Thresholds) (*EyeEstimator, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, fmt.Errorf("%w: %s", ErrCascadeNotFound, path)
	}
	return &EyeEstimator{classifier: classifier, thresholds: th}, nil
}

// Estimate measures both eyes of face. Without two eyes the reading is not
// available, which the classifier treats as sleepy.
func (e *EyeEstimator) Estimate(frame gocv.Mat, face image.Rectangle) (Reading, error) {
	face = face.Intersect(image.Rect(0, 0, frame.Cols(), frame.Rows()))
	if face.Empty() {
		return Reading{}, nil
	}

	upper := image.Rect(face.Min.X, face.Min.Y, face.Max.X, face.Min.Y+face.Dy()/2)
	roi := frame.Region(upper)
	defer roi.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(roi, &gray, gocv.ColorBGRToGray)

	minEye := image.Pt(face.Dx()/8, face.Dx()/8)
	e.mu.Lock()
	boxes := e.classifier.DetectMultiScaleWithParams(gray, 1.1, 5, 0, minEye, image.Point{})
	e.mu.Unlock()

	leftBox, rightBox, ok := PickEyes(boxes)
	if !ok {
		return Reading{}, nil
	}

	left := measureEye(gray, leftBox)
	right := measureEye(gray, rightBox)
	return Combine(left, right, upper.Min, e.thresholds), nil
}

// Close releases the cascade.
func (e *EyeEstimator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.classifier.Close()
}

// measureEye locates the pupil and the dark band of one eye in gray.
func measureEye(gray gocv.Mat, box image.Rectangle) Eye {
	region := gray.Region(box)
	defer region.Close()

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(region, &blurred, image.Pt(7, 7), 0, 0, gocv.BorderDefault)

	minVal, _, minLoc, _ := gocv.MinMaxLoc(blurred)

	band := gocv.NewMat()
	defer band.Close()
	gocv.Threshold(blurred, &band, minVal+25, 255, gocv.ThresholdBinaryInv)

	return Eye{
		Box:        box,
		Pupil:      minLoc,
		BlinkRatio: bandRatio(band),
	}
}

// bandRatio returns width/height of the largest dark contour, or 0.
func bandRatio(mask gocv.Mat) float64 {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	best, bestArea := -1, 0.0
	for i := 0; i < contours.Size(); i++ {
		if a := gocv.ContourArea(contours.At(i)); a > bestArea {
			best, bestArea = i, a
		}
	}
	if best < 0 {
		return 0
	}
	r := gocv.BoundingRect(contours.At(best))
	if r.Dy() == 0 {
		return 0
	}
	return float64(r.Dx()) / float64(r.Dy())
}

var _ Estimator = (*EyeEstimator)(nil)
