package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teslashibe/go-focus/internal/config"
	"github.com/teslashibe/go-focus/pkg/alert"
	"github.com/teslashibe/go-focus/pkg/camera"
	"github.com/teslashibe/go-focus/pkg/detection"
	"github.com/teslashibe/go-focus/pkg/emotion"
	"github.com/teslashibe/go-focus/pkg/gaze"
	"github.com/teslashibe/go-focus/pkg/tts"
)

func cameraConfig(cfg *config.Config) camera.Config {
	cc := camera.DefaultConfig()
	cc.Device = cfg.Camera.Device
	cc.Width = cfg.Camera.Width
	cc.Height = cfg.Camera.Height
	cc.Mirror = cfg.Camera.Mirror
	return cc
}

func buildDetector(cfg *config.Config) (detection.Detector, error) {
	return detection.New(detection.Config{
		Kind:           cfg.Detector.Kind,
		CascadePath:    cfg.Detector.CascadePath,
		ModelPath:      cfg.Detector.ModelPath,
		ScaleFactor:    cfg.Detector.ScaleFactor,
		MinNeighbors:   cfg.Detector.MinNeighbors,
		MinFaceSize:    cfg.Tracking.MinFaceSize,
		ScoreThreshold: cfg.Detector.ScoreThreshold,
	})
}

func buildEstimator(cfg *config.Config) (gaze.Estimator, error) {
	if !cfg.Gaze.Enabled {
		return gaze.NewStatic(), nil
	}
	return gaze.NewEyeEstimator(cfg.Gaze.EyeCascadePath, gaze.Thresholds{
		Left:  cfg.Gaze.LeftThreshold,
		Right: cfg.Gaze.RightThreshold,
		Down:  cfg.Gaze.DownThreshold,
		Blink: cfg.Gaze.BlinkThreshold,
	})
}

func buildClassifier(cfg *config.Config, logger *slog.Logger) (emotion.Classifier, error) {
	switch cfg.Emotion.Provider {
	case "gemini":
		return emotion.NewGemini(cfg.Emotion.APIKey,
			emotion.WithModel(cfg.Emotion.Model),
			emotion.WithTimeout(cfg.EmotionTimeout()),
			emotion.WithLogger(logger),
		)
	case "static", "":
		return emotion.NewStatic(cfg.Emotion.StaticLabel), nil
	default:
		return nil, fmt.Errorf("unknown emotion provider %q", cfg.Emotion.Provider)
	}
}

// buildSink returns the alert sink selected by alert.sink. The closer
// releases sink resources and is never nil.
func buildSink(ctx context.Context, cfg *config.Config, logger *slog.Logger) (alert.Sink, func() error, error) {
	noop := func() error { return nil }
	logSink := alert.NewLog(logger)

	switch cfg.Alert.Sink {
	case "command":
		cmd, err := alert.NewCommand(cfg.Alert.Command)
		if err != nil {
			return nil, noop, err
		}
		return alert.Multi{logSink, cmd}, noop, nil

	case "tts":
		provider, err := tts.New(cfg.TTS.Provider,
			tts.WithAPIKey(cfg.TTS.APIKey),
			tts.WithVoice(cfg.TTS.Voice),
			tts.WithModel(cfg.TTS.Model),
			tts.WithLogger(logger),
		)
		if err != nil {
			return nil, noop, fmt.Errorf("tts provider: %w", err)
		}
		speaker, err := alert.NewSpeaker(provider, cfg.Alert.Player)
		if err != nil {
			_ = provider.Close()
			return nil, noop, err
		}
		if err := speaker.Warm(ctx); err != nil {
			logger.Warn("could not pre-synthesize alert phrases", "error", err)
		}
		return alert.Multi{logSink, speaker}, speaker.Close, nil

	case "log":
		return logSink, noop, nil

	case "none":
		return alert.Discard{}, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown alert sink %q", cfg.Alert.Sink)
	}
}
