// Package recording reads and writes JSON-lines frame recordings.
//
// Each line holds the detections handed to the engine for one frame and the
// frame's offset from the start of the recording:
//
//	{"t":0.533,"faces":[{"box":{"x":410,"y":220,"w":180,"h":180},"emotion":"Neutral","gaze_available":true,"gaze":"Center"}]}
//
// Replaying a recording through a fresh engine reproduces the run exactly,
// since the engine only sees detections and timestamps.
package recording

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/teslashibe/go-focus/pkg/attention"
)

// ErrOutOfOrder is returned when a frame offset is earlier than the previous one.
var ErrOutOfOrder = errors.New("recording: frame offsets must not decrease")

// maxLine bounds a single frame line.
const maxLine = 1 << 20

// Frame is one recorded frame.
type Frame struct {
	T     float64               `json:"t"` // Seconds since the recording started
	Faces []attention.Detection `json:"faces"`
}

// Offset returns T as a duration.
func (f Frame) Offset() time.Duration {
	return time.Duration(f.T * float64(time.Second))
}

// Writer appends frames to a recording.
type Writer struct {
	w     *bufio.Writer
	enc   *json.Encoder
	c     io.Closer
	start time.Time
	last  float64
	n     int
}

// NewWriter writes frames to w, timed relative to start.
func NewWriter(w io.Writer, start time.Time) *Writer {
	bw := bufio.NewWriter(w)
	rw := &Writer{w: bw, enc: json.NewEncoder(bw), start: start}
	if c, ok := w.(io.Closer); ok {
		rw.c = c
	}
	return rw
}

// Create creates (or truncates) the file at path and returns a writer for it.
func Create(path string, start time.Time) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	return NewWriter(f, start), nil
}

// Write records one frame observed at now.
func (w *Writer) Write(now time.Time, faces []attention.Detection) error {
	t := now.Sub(w.start).Seconds()
	if w.n > 0 && t < w.last {
		return fmt.Errorf("%w: %.3fs after %.3fs", ErrOutOfOrder, t, w.last)
	}
	if faces == nil {
		faces = []attention.Detection{}
	}
	if err := w.enc.Encode(Frame{T: t, Faces: faces}); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	w.last = t
	w.n++
	return nil
}

// Frames returns the number of frames written.
func (w *Writer) Frames() int {
	return w.n
}

// Flush writes buffered frames to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes and closes the underlying writer when it is a Closer.
func (w *Writer) Close() error {
	err := w.w.Flush()
	if w.c != nil {
		if cerr := w.c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Reader reads frames from a recording.
type Reader struct {
	sc   *bufio.Scanner
	c    io.Closer
	line int
	last float64
	read int
}

// NewReader reads frames from r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	rd := &Reader{sc: sc}
	if c, ok := r.(io.Closer); ok {
		rd.c = c
	}
	return rd
}

// Open opens the recording at path.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	return NewReader(f), nil
}

// Next returns the next frame, or io.EOF at the end of the recording. Blank
// lines are skipped.
func (r *Reader) Next() (Frame, error) {
	for r.sc.Scan() {
		r.line++
		line := r.sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var f Frame
		if err := json.Unmarshal(line, &f); err != nil {
			return Frame{}, fmt.Errorf("recording line %d: %w", r.line, err)
		}
		if r.read > 0 && f.T < r.last {
			return Frame{}, fmt.Errorf("recording line %d: %w", r.line, ErrOutOfOrder)
		}
		r.last = f.T
		r.read++
		return f, nil
	}
	if err := r.sc.Err(); err != nil {
		return Frame{}, fmt.Errorf("read recording: %w", err)
	}
	return Frame{}, io.EOF
}

// ReadAll returns every remaining frame.
func (r *Reader) ReadAll() ([]Frame, error) {
	var out []Frame
	for {
		f, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
}

// Close closes the underlying reader when it is a Closer.
func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}
