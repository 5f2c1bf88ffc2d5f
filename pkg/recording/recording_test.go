package recording

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/teslashibe/go-focus/pkg/attention"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func TestWriter_Format(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, t0)

	face := attention.Detection{
		Box:           attention.Box{X: 1, Y: 2, W: 3, H: 4},
		Emotion:       "Neutral",
		GazeAvailable: true,
		Gaze:          attention.GazeCenter,
	}
	if err := w.Write(t0.Add(500*time.Millisecond), []attention.Detection{face}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Write(t0.Add(time.Second), nil); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := `{"t":0.5,"faces":[{"box":{"x":1,"y":2,"w":3,"h":4},"emotion":"Neutral","gaze_available":true,"gaze":"Center"}]}
{"t":1,"faces":[]}
`
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
	if w.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", w.Frames())
	}
}

func TestWriter_RejectsOutOfOrder(t *testing.T) {
	w := NewWriter(io.Discard, t0)
	if err := w.Write(t0.Add(time.Second), nil); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(t0, nil); !errors.Is(err, ErrOutOfOrder) {
		t.Errorf("Write() error = %v, want ErrOutOfOrder", err)
	}
}

func TestRoundTripFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.jsonl")
	w, err := Create(path, t0)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	frames := [][]attention.Detection{
		{{Box: attention.Box{X: 10, Y: 10, W: 120, H: 120}, Emotion: "Happy", GazeAvailable: true, Gaze: attention.GazeLeft}},
		{},
		{
			{Box: attention.Box{X: 10, Y: 12, W: 118, H: 121}, Emotion: "Angry"},
			{Box: attention.Box{X: 400, Y: 10, W: 130, H: 130}, Emotion: "Unknown", GazeAvailable: true, Gaze: attention.GazeBlink},
		},
	}
	for i, faces := range frames {
		if err := w.Write(t0.Add(time.Duration(i)*250*time.Millisecond), faces); err != nil {
			t.Fatalf("Write(%d) error = %v", i, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	got, err := r.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	want := []Frame{
		{T: 0, Faces: frames[0]},
		{T: 0.25, Faces: []attention.Detection{}},
		{T: 0.5, Faces: frames[2]},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReadAll() mismatch (-want +got):\n%s", diff)
	}
	if got[2].Offset() != 500*time.Millisecond {
		t.Errorf("Offset() = %v, want 500ms", got[2].Offset())
	}
}

func TestReader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{name: "out of order", input: "{\"t\":2,\"faces\":[]}\n{\"t\":1,\"faces\":[]}\n", want: ErrOutOfOrder},
		{name: "bad json", input: "{\"t\":0,\"faces\":[]}\nnot json\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			if _, err := r.Next(); err != nil {
				t.Fatalf("first Next() error = %v", err)
			}
			_, err := r.Next()
			if err == nil {
				t.Fatal("second Next() error = nil, want error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("Next() error = %v, want %v", err, tt.want)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("error %q should name line 2", err)
			}
		})
	}
}

func TestReader_SkipsBlankLinesAndNormalizesGaze(t *testing.T) {
	input := "\n  \n{\"t\":0,\"faces\":[{\"box\":{\"x\":0,\"y\":0,\"w\":100,\"h\":100},\"emotion\":\"sad\",\"gaze_available\":true,\"gaze\":\"down\"}]}\n\n"
	r := NewReader(strings.NewReader(input))

	f, err := r.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if f.Faces[0].Gaze != attention.GazeDown {
		t.Errorf("Gaze = %q, want %q", f.Faces[0].Gaze, attention.GazeDown)
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() at end = %v, want io.EOF", err)
	}
}
