package web

import (
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-focus/pkg/alert"
	"github.com/teslashibe/go-focus/pkg/attention"
	"github.com/teslashibe/go-focus/pkg/hub"
)

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.Status())
}

func (s *Server) handleTracks(c *fiber.Ctx) error {
	s.mu.RLock()
	tracks := append([]attention.TrackResult{}, s.last.Tracks...)
	s.mu.RUnlock()
	return c.JSON(tracks)
}

// handleAlerts returns recent alerts, newest last. ?limit=N keeps the last N.
func (s *Server) handleAlerts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", alertHistory)
	if limit < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must not be negative",
		})
	}

	s.mu.RLock()
	alerts := s.alerts
	if limit < len(alerts) {
		alerts = alerts[len(alerts)-limit:]
	}
	out := append([]alert.Alert{}, alerts...)
	s.mu.RUnlock()
	return c.JSON(out)
}

func (s *Server) handleConfig(c *fiber.Ctx) error {
	if s.config == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "config not available",
		})
	}
	return c.JSON(s.config)
}

// handleFramesWS greets a subscriber with the latest frame result.
func (s *Server) handleFramesWS(c *websocket.Conn) {
	s.mu.RLock()
	last := s.last
	frames := s.status.Frames
	s.mu.RUnlock()

	var greeting []hub.Message
	if frames > 0 {
		if data, err := json.Marshal(last); err == nil {
			greeting = append(greeting, hub.NewJSONMessage(data))
		}
	}
	s.frameHub.Serve(c, greeting...)
}

func (s *Server) handleAlertsWS(c *websocket.Conn) {
	s.alertHub.Serve(c)
}

func (s *Server) handleCameraWS(c *websocket.Conn) {
	s.cameraHub.Serve(c)
}
