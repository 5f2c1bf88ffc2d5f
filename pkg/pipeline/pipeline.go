// Package pipeline drives the capture loop.
//
// Each frame is read, faces are detected, gaze and emotion signals are
// computed per face, and the result is handed to the attention engine. Fired
// alerts go to an alert dispatcher; frame results go to the journal, the
// dashboard, a recording and the preview window when those are configured.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gocv.io/x/gocv"

	"github.com/teslashibe/go-focus/pkg/alert"
	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/camera"
	"github.com/teslashibe/go-focus/pkg/detection"
	"github.com/teslashibe/go-focus/pkg/emotion"
	"github.com/teslashibe/go-focus/pkg/gaze"
	"github.com/teslashibe/go-focus/pkg/journal"
	"github.com/teslashibe/go-focus/pkg/overlay"
	"github.com/teslashibe/go-focus/pkg/recording"
	"github.com/teslashibe/go-focus/pkg/web"
)

// Source yields frames. camera.Source implements it.
type Source interface {
	Read(dst *gocv.Mat) error
}

// Pipeline is one capture loop. It is not safe for concurrent use.
type Pipeline struct {
	source     Source
	detector   detection.Detector
	estimator  gaze.Estimator
	classifier emotion.Classifier
	engine     *attention.Engine

	dispatcher *alert.Dispatcher
	journal    *journal.Journal
	session    string
	dashboard  *web.Server
	window     *overlay.Window
	recorder   *recording.Writer

	emotionTimeout time.Duration
	jpegQuality    int
	clock          func() time.Time
	logger         *slog.Logger

	frames int64
	fps    fpsMeter
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDispatcher sends fired alerts to d.
func WithDispatcher(d *alert.Dispatcher) Option {
	return func(p *Pipeline) { p.dispatcher = d }
}

// WithJournal records frame events into session of j.
func WithJournal(j *journal.Journal, session string) Option {
	return func(p *Pipeline) {
		p.journal = j
		p.session = session
	}
}

// WithDashboard publishes frames and annotated JPEGs to s.
func WithDashboard(s *web.Server) Option {
	return func(p *Pipeline) { p.dashboard = s }
}

// WithWindow shows annotated frames in w. Pressing q ends the run.
func WithWindow(w *overlay.Window) Option {
	return func(p *Pipeline) { p.window = w }
}

// WithRecorder writes the engine input of every frame to w.
func WithRecorder(w *recording.Writer) Option {
	return func(p *Pipeline) { p.recorder = w }
}

// WithEmotionTimeout bounds each emotion classification.
func WithEmotionTimeout(d time.Duration) Option {
	return func(p *Pipeline) { p.emotionTimeout = d }
}

// WithJPEGQuality sets the quality of face crops and dashboard frames.
func WithJPEGQuality(q int) Option {
	return func(p *Pipeline) { p.jpegQuality = q }
}

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(p *Pipeline) { p.clock = clock }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a pipeline. source, detector, estimator, classifier and engine
// are required.
func New(source Source, detector detection.Detector, estimator gaze.Estimator, classifier emotion.Classifier, engine *attention.Engine, opts ...Option) (*Pipeline, error) {
	if source == nil || detector == nil || estimator == nil || classifier == nil || engine == nil {
		return nil, errors.New("pipeline: source, detector, estimator, classifier and engine are required")
	}
	p := &Pipeline{
		source:      source,
		detector:    detector,
		estimator:   estimator,
		classifier:  classifier,
		engine:      engine,
		jpegQuality: camera.DefaultConfig().Quality,
		clock:       time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("component", "pipeline")
	return p, nil
}

// Run processes frames until ctx is done, the source ends, or the preview
// window asks to quit. Those three endings return nil; a failed read other
// than the end of stream is returned.
func (p *Pipeline) Run(ctx context.Context) error {
	frame := gocv.NewMat()
	defer frame.Close()

	p.logger.Info("pipeline started")
	defer func() {
		p.logger.Info("pipeline stopped", "frames", p.frames)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if err := p.source.Read(&frame); err != nil {
			if errors.Is(err, camera.ErrEndOfStream) {
				p.logger.Info("capture ended")
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		res, faces, err := p.Step(ctx, frame)
		if err != nil {
			p.logger.Warn("frame skipped", "error", err)
			continue
		}

		if p.window == nil && (p.dashboard == nil || p.dashboard.CameraClients() == 0) {
			continue
		}
		overlay.Draw(&frame, OverlayFaces(res, faces))
		overlay.Banner(&frame, p.frames, len(res.Tracks))

		if p.dashboard != nil && p.dashboard.CameraClients() > 0 {
			if jpeg, err := camera.EncodeJPEG(frame, p.jpegQuality); err == nil {
				p.dashboard.PublishCamera(jpeg)
			}
		}
		if p.window != nil && p.window.Show(frame) {
			p.logger.Info("quit requested")
			return nil
		}
	}
}

// Step processes one captured frame and returns the engine result together
// with the faces it was computed from, in the same order as res.Tracks.
// A detector failure skips the frame without touching the engine.
func (p *Pipeline) Step(ctx context.Context, frame gocv.Mat) (attention.FrameResult, []Face, error) {
	now := p.clock()

	dets, err := p.detector.Detect(frame)
	if err != nil {
		return attention.FrameResult{}, nil, fmt.Errorf("detect: %w", err)
	}
	dets = detection.ClampToFrame(dets, frame.Cols(), frame.Rows())
	dets = detection.FilterMinSize(dets, p.engine.Config().MinFaceSize)

	faces := make([]Face, len(dets))
	for i, d := range dets {
		faces[i].Box = d.Rect

		reading, err := p.estimator.Estimate(frame, d.Rect)
		if err != nil {
			p.logger.Debug("gaze estimate failed", "error", err)
			reading = gaze.Reading{}
		}
		faces[i].Gaze = reading

		crop, err := camera.EncodeRegion(frame, d.Rect, p.jpegQuality)
		if err != nil {
			p.logger.Debug("face crop failed", "error", err)
		}
		faces[i].crop = crop
	}
	classifyAll(ctx, p.classifier, faces, p.emotionTimeout)

	res := p.Process(ctx, faces, now)
	return res, faces, nil
}

// Process hands pre-computed faces to the engine and fans the result out.
func (p *Pipeline) Process(ctx context.Context, faces []Face, now time.Time) attention.FrameResult {
	dets := Detections(faces)
	res := p.engine.ProcessFrame(dets, now)
	p.frames++
	p.fps.tick(now)

	for _, a := range alert.FromFrame(res) {
		p.logger.Info("alert", "track", a.TrackID, "kind", a.Kind)
		if p.dispatcher == nil {
			continue
		}
		if err := p.dispatcher.Submit(a); err != nil {
			p.logger.Warn("alert not queued", "track", a.TrackID, "error", err)
		}
	}

	if p.journal != nil {
		if err := p.journal.RecordFrame(ctx, p.session, res); err != nil {
			p.logger.Warn("journal write failed", "error", err)
		}
	}
	if p.recorder != nil {
		if err := p.recorder.Write(now, dets); err != nil {
			p.logger.Warn("recording write failed", "error", err)
		}
	}
	if p.dashboard != nil {
		p.dashboard.PublishFrame(res)
		fps := p.fps.rate()
		var delivery alert.Stats
		if p.dispatcher != nil {
			delivery = p.dispatcher.Stats()
		}
		p.dashboard.UpdateStatus(func(s *web.Status) {
			s.FPS = fps
			s.Delivery = delivery
		})
	}
	return res
}

// Frames returns the number of frames processed.
func (p *Pipeline) Frames() int64 {
	return p.frames
}

// OverlayFaces pairs each track result with the face it came from. Results
// and faces share detection order; a face filtered out by the engine is
// skipped by matching boxes.
func OverlayFaces(res attention.FrameResult, faces []Face) []overlay.Face {
	out := make([]overlay.Face, 0, len(res.Tracks))
	j := 0
	for _, tr := range res.Tracks {
		for j < len(faces) && attention.BoxFromRect(faces[j].Box) != tr.Box {
			j++
		}
		if j == len(faces) {
			break
		}
		f := faces[j]
		j++

		of := overlay.Face{
			Box:           f.Box,
			GazeAvailable: f.Gaze.Available,
			Gaze:          f.Gaze.Direction,
			Emotion:       tr.Emotion,
			TransientMood: tr.TransientMood,
			StableMood:    tr.StableMood,
		}
		if f.Gaze.Available {
			of.Pupils = f.Gaze.Pupils[:]
		}
		out = append(out, of)
	}
	return out
}
