// Package web serves the live attention dashboard API.
//
// The pipeline publishes every frame result and camera frame to the server;
// REST endpoints expose the latest snapshot and websocket endpoints stream
// updates as they happen.
package web

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/teslashibe/go-focus/pkg/alert"
	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/hub"
)

// alertHistory is how many recent alerts the server keeps.
const alertHistory = 200

// Status is the pipeline state shown on the dashboard.
type Status struct {
	Running bool   `json:"running"`
	Source  string `json:"source"`

	// Capture properties; CaptureFPS is 0 when the device does not report it.
	Live       bool    `json:"live"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	CaptureFPS float64 `json:"capture_fps,omitempty"`

	Session   string      `json:"session,omitempty"`
	StartedAt time.Time   `json:"started_at"`
	Frames    int64       `json:"frames"`
	FPS       float64     `json:"fps"`
	Tracks    int         `json:"tracks"`
	Alerts    int         `json:"alerts"`
	Delivery  alert.Stats `json:"delivery"`
}

// Server is the dashboard server.
type Server struct {
	app    *fiber.App
	addr   string
	logger *slog.Logger
	config any

	mu     sync.RWMutex
	status Status
	last   attention.FrameResult
	alerts []alert.Alert

	frameHub  *hub.Hub
	alertHub  *hub.Hub
	cameraHub *hub.Hub
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConfig sets the value served at /api/config. Pass a redacted copy.
func WithConfig(cfg any) Option {
	return func(s *Server) {
		s.config = cfg
	}
}

// NewServer creates a dashboard server listening on addr once started.
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:   addr,
		logger: slog.Default(),
		alerts: make([]alert.Alert, 0, alertHistory),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "web")
	s.frameHub = hub.New("frames", hub.WithLogger(s.logger))
	s.alertHub = hub.New("alerts", hub.WithLogger(s.logger))
	s.cameraHub = hub.New("camera", hub.WithLogger(s.logger))

	app := fiber.New(fiber.Config{
		AppName:               "go-focus",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/tracks", s.handleTracks)
	api.Get("/alerts", s.handleAlerts)
	api.Get("/config", s.handleConfig)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/frames", websocket.New(s.handleFramesWS))
	app.Get("/ws/alerts", websocket.New(s.handleAlertsWS))
	app.Get("/ws/camera", websocket.New(s.handleCameraWS))

	s.app = app
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run starts the hubs and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	for _, h := range []*hub.Hub{s.frameHub, s.alertHub, s.cameraHub} {
		go h.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.addr)
		errCh <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return nil
	}
}

// UpdateStatus applies update to the status under the lock.
func (s *Server) UpdateStatus(update func(*Status)) {
	s.mu.Lock()
	update(&s.status)
	s.mu.Unlock()
}

// Status returns a copy of the current status.
func (s *Server) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// PublishFrame records a frame result and streams it to /ws/frames. Alerts
// fired in the frame are also streamed to /ws/alerts.
func (s *Server) PublishFrame(res attention.FrameResult) {
	fired := alert.FromFrame(res)

	s.mu.Lock()
	s.last = res
	s.status.Frames++
	s.status.Tracks = len(res.Tracks)
	s.status.Alerts += len(fired)
	for _, a := range fired {
		if len(s.alerts) == alertHistory {
			copy(s.alerts, s.alerts[1:])
			s.alerts = s.alerts[:alertHistory-1]
		}
		s.alerts = append(s.alerts, a)
	}
	s.mu.Unlock()

	if err := s.frameHub.BroadcastJSON(res); err != nil {
		s.logger.Warn("encode frame", "error", err)
	}
	for _, a := range fired {
		if err := s.alertHub.BroadcastJSON(a); err != nil {
			s.logger.Warn("encode alert", "error", err)
		}
	}
}

// PublishCamera streams an annotated JPEG frame to /ws/camera.
func (s *Server) PublishCamera(jpeg []byte) {
	if s.cameraHub.ClientCount() == 0 {
		return
	}
	s.cameraHub.BroadcastBinary(jpeg)
}

// CameraClients returns the number of /ws/camera subscribers. Callers skip
// JPEG encoding when it is zero.
func (s *Server) CameraClients() int {
	return s.cameraHub.ClientCount()
}
