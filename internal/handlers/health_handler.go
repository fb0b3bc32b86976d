package handlers

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/social-feed/internal/dto"
	"github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store repository.Store
}

func NewHealthHandler(store repository.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check answers 503 when the store does not respond to a ping.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "ok",
	}
	if err := h.store.Ping(c.UserContext()); err != nil {
		resp.Status = "degraded"
		resp.DB = "unhealthy: " + err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
