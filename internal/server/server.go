// Package server exposes the HTTP boundary: a manual pipeline trigger
// and the render provider's completion webhook.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"reelsmith/internal/app"
	"reelsmith/pkg/config"
)

type Server struct {
	app     *fiber.App
	service *app.Service
}

func New(service *app.Service, cfg *config.Config) *Server {
	srv := &Server{service: service}

	srv.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.RequestTimeout,
		WriteTimeout:          cfg.Server.RequestTimeout,
	})

	srv.app.Get("/health", srv.handleHealth)
	srv.app.Post("/api/agent/run", srv.handleRun)
	srv.app.Post("/api/webhooks/render/:postId", srv.handleRenderWebhook)

	return srv
}

func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

func (s *Server) Shutdown(ctx context.Context) error { return s.app.ShutdownWithContext(ctx) }

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleRun(c *fiber.Ctx) error {
	result, err := s.service.Run(c.UserContext())
	if err != nil {
		slog.Error("Pipeline run failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"outcome":   result.Outcome,
		"message":   result.Message,
		"scheduled": len(result.Scheduled),
	})
}

// renderEvent is the subset of the provider's webhook payload we act
// on. The provider posts an array with one entry per template output;
// some configurations post a bare object instead.
type renderEvent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	URL    string `json:"url"`
}

// handleRenderWebhook records a finished render. The response is an
// unconditional 200: the provider retries non-2xx responses, and a
// payload we cannot act on will not improve on redelivery.
func (s *Server) handleRenderWebhook(c *fiber.Ctx) error {
	ack := func() error { return c.SendString("Webhook received.") }

	postID, err := strconv.ParseInt(c.Params("postId"), 10, 64)
	if err != nil {
		slog.Warn("Render webhook with malformed post reference", "param", c.Params("postId"))
		return ack()
	}

	event, ok := decodeRenderEvent(c.Body())
	if !ok {
		slog.Warn("Render webhook with undecodable payload", "post", postID)
		return ack()
	}

	result, err := s.service.CompleteRender(c.UserContext(), postID, app.RenderResult{
		Status:   event.Status,
		VideoURL: event.URL,
	})
	if err != nil {
		slog.Error("Render completion failed", "post", postID, "error", err)
		return ack()
	}

	if result.Applied {
		slog.Info("Render webhook applied", "post", postID, "job", event.ID)
	}
	return ack()
}

func decodeRenderEvent(body []byte) (renderEvent, bool) {
	var events []renderEvent
	if err := json.Unmarshal(body, &events); err == nil {
		if len(events) == 0 {
			return renderEvent{}, false
		}
		return events[0], true
	}

	var event renderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return renderEvent{}, false
	}
	return event, true
}
