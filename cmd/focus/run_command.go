package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-focus/internal/log"
	"github.com/teslashibe/go-focus/pkg/alert"
	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/camera"
	"github.com/teslashibe/go-focus/pkg/journal"
	"github.com/teslashibe/go-focus/pkg/overlay"
	"github.com/teslashibe/go-focus/pkg/pipeline"
	"github.com/teslashibe/go-focus/pkg/recording"
	"github.com/teslashibe/go-focus/pkg/web"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		device     string
		noWindow   bool
		noWeb      bool
		noJournal  bool
		recordPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Monitor a camera or video file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if d := strings.TrimSpace(device); d != "" {
				cfg.Camera.Device = d
			}
			if noWindow {
				cfg.Camera.Window = false
			}
			if noWeb {
				cfg.Web.Enabled = false
			}
			if noJournal {
				cfg.Journal.Enabled = false
			}

			runCtx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			logger := log.L()

			cc := cameraConfig(cfg)
			lock, err := pipeline.LockCamera(cfg.Camera.LockDir, cc.LockName())
			if err != nil {
				return err
			}
			defer lock.Unlock()

			source, err := camera.Open(cc)
			if err != nil {
				return err
			}
			defer source.Close()
			size := source.Size()
			logger.Info("capture opened",
				"device", cc.Device,
				"live", source.Live(),
				"width", size.X,
				"height", size.Y,
				"fps", source.FPS(),
			)

			detector, err := buildDetector(cfg)
			if err != nil {
				return err
			}
			defer detector.Close()

			estimator, err := buildEstimator(cfg)
			if err != nil {
				return err
			}
			defer estimator.Close()

			classifier, err := buildClassifier(cfg, logger)
			if err != nil {
				return err
			}

			engine, err := attention.NewEngine(cfg.Attention(), attention.WithLogger(logger))
			if err != nil {
				return err
			}

			sink, closeSink, err := buildSink(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer closeSink()
			dispatcher := alert.NewDispatcher(sink, cfg.Alert.QueueSize, alert.WithLogger(logger))
			go dispatcher.Run(runCtx)
			defer dispatcher.Close()

			opts := []pipeline.Option{
				pipeline.WithDispatcher(dispatcher),
				pipeline.WithEmotionTimeout(cfg.EmotionTimeout()),
				pipeline.WithLogger(logger),
			}

			started := time.Now()
			var sessionID string
			if cfg.Journal.Enabled {
				j, err := journal.Open(cfg.Journal.Path)
				if err != nil {
					return err
				}
				defer j.Close()
				session, err := j.StartSession(runCtx, cc.Device, started)
				if err != nil {
					return err
				}
				sessionID = session.ID
				defer func() {
					if err := j.EndSession(context.Background(), session.ID, time.Now(), engine.Frames()); err != nil {
						logger.Warn("could not close journal session", "error", err)
					}
				}()
				opts = append(opts, pipeline.WithJournal(j, session.ID))
				logger.Info("journal session started", "session", session.ID, "path", j.Path())
			}

			if recordPath != "" {
				w, err := recording.Create(recordPath, started)
				if err != nil {
					return err
				}
				defer func() {
					if err := w.Close(); err != nil {
						logger.Warn("could not finish recording", "error", err)
					}
				}()
				opts = append(opts, pipeline.WithRecorder(w))
			}

			webErr := make(chan error, 1)
			if cfg.Web.Enabled {
				server := web.NewServer(cfg.Web.Addr, web.WithLogger(logger), web.WithConfig(cfg.Redacted()))
				server.UpdateStatus(func(s *web.Status) {
					s.Running = true
					s.Source = cc.Device
					s.Live = source.Live()
					s.Width, s.Height = size.X, size.Y
					s.CaptureFPS = source.FPS()
					s.Session = sessionID
					s.StartedAt = started
				})
				go func() { webErr <- server.Run(runCtx) }()
				defer func() {
					cancel()
					if err := <-webErr; err != nil {
						logger.Warn("dashboard stopped with error", "error", err)
					}
				}()
				opts = append(opts, pipeline.WithDashboard(server))
			}

			if cfg.Camera.Window {
				window := overlay.NewWindow(overlay.DefaultTitle)
				defer window.Close()
				opts = append(opts, pipeline.WithWindow(window))
			}

			p, err := pipeline.New(source, detector, estimator, classifier, engine, opts...)
			if err != nil {
				return err
			}

			err = p.Run(runCtx)
			if errors.Is(err, context.Canceled) {
				err = nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Processed %d frames in %s\n", p.Frames(), time.Since(started).Round(time.Second))
			if sessionID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s (see `focus report %s`)\n", sessionID, shortID(sessionID))
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&device, "device", "d", "", "Camera index or video path (overrides camera.device)")
	cmd.Flags().BoolVar(&noWindow, "no-window", false, "Do not open the preview window")
	cmd.Flags().BoolVar(&noWeb, "no-web", false, "Do not start the dashboard")
	cmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not journal this session")
	cmd.Flags().StringVar(&recordPath, "record", "", "Write engine input to a JSON-lines recording")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
