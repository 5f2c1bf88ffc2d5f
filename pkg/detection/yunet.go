package detection

import (
	"fmt"
	"image"
	"math"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// YuNet uses OpenCV's FaceDetectorYN for face detection
type YuNet struct {
	detector gocv.FaceDetectorYN
	config   Config
	mu       sync.Mutex // Protects inference
}

// NewYuNet creates a YuNet detector from the ONNX model at cfg.ModelPath.
func NewYuNet(cfg Config) (*YuNet, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	// Input size is reset per frame
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(320, 320),
		float32(cfg.ScoreThreshold),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	return &YuNet{detector: detector, config: cfg}, nil
}

// Detect finds faces in frame and drops those below MinFaceSize.
func (d *YuNet) Detect(frame gocv.Mat) ([]Detection, error) {
	if frame.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.detector.SetInputSize(image.Pt(frame.Cols(), frame.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	d.detector.Detect(frame, &faces)

	dets := make([]Detection, 0, faces.Rows())
	for r := 0; r < faces.Rows(); r++ {
		// Columns: x, y, w, h, five landmark pairs, score
		row := [15]float32{}
		for c := range row {
			row[c] = faces.GetFloatAt(r, c)
		}
		dets = append(dets, parseYuNetRow(row))
	}

	dets = ClampToFrame(dets, frame.Cols(), frame.Rows())
	return FilterMinSize(dets, d.config.MinFaceSize), nil
}

// Close releases the detector resources
func (d *YuNet) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}

func parseYuNetRow(row [15]float32) Detection {
	x := int(math.Round(float64(row[0])))
	y := int(math.Round(float64(row[1])))
	w := int(math.Round(float64(row[2])))
	h := int(math.Round(float64(row[3])))
	return Detection{
		Rect:       image.Rect(x, y, x+w, y+h),
		Confidence: float64(row[14]),
	}
}

var _ Detector = (*YuNet)(nil)
