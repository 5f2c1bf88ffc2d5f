package detection

import (
	"errors"
	"image"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func rect(x, y, w, h int) Detection {
	return Detection{Rect: image.Rect(x, y, x+w, y+h), Confidence: 1}
}

func TestFilterMinSize(t *testing.T) {
	dets := []Detection{
		rect(0, 0, 120, 120),
		rect(200, 0, 99, 150),
		rect(400, 0, 150, 99),
		rect(600, 0, 100, 100),
	}

	got := FilterMinSize(dets, 100)
	want := []Detection{rect(0, 0, 120, 120), rect(600, 0, 100, 100)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterMinSize() mismatch (-want +got):\n%s", diff)
	}
	if len(dets) != 4 || dets[1].Rect.Dx() != 99 {
		t.Error("FilterMinSize modified its input")
	}
}

func TestClampToFrame(t *testing.T) {
	dets := []Detection{
		rect(-20, -10, 120, 120),
		rect(1250, 700, 100, 100),
		rect(1400, 0, 100, 100),
	}

	got := ClampToFrame(dets, 1280, 720)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Rect != image.Rect(0, 0, 100, 110) {
		t.Errorf("first = %v", got[0].Rect)
	}
	if got[1].Rect != image.Rect(1250, 700, 1280, 720) {
		t.Errorf("second = %v", got[1].Rect)
	}
}

func TestParseYuNetRow(t *testing.T) {
	row := [15]float32{10.4, 20.6, 119.5, 130.2}
	row[14] = 0.92

	got := parseYuNetRow(row)
	if got.Rect != image.Rect(10, 21, 10+120, 21+130) {
		t.Errorf("Rect = %v", got.Rect)
	}
	if got.Confidence < 0.919 || got.Confidence > 0.921 {
		t.Errorf("Confidence = %v, want 0.92", got.Confidence)
	}
}

func TestNew_UnknownKind(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kind = "hog"
	if _, err := New(cfg); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("New() error = %v, want ErrUnknownKind", err)
	}
}

func TestNewYuNet_MissingModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ModelPath = "/nonexistent/model.onnx"
	if _, err := NewYuNet(cfg); !errors.Is(err, ErrModelNotFound) {
		t.Errorf("NewYuNet() error = %v, want ErrModelNotFound", err)
	}
}
