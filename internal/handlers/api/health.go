package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"

	"catalognorm/internal/models"
)

const healthTimeout = 2 * time.Second

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelInfo describes the loaded classifier.
type ModelInfo interface {
	Info() models.ModelInfoResponse
}

// HealthHandler reports service health.
type HealthHandler struct {
	db    Pinger
	model ModelInfo
}

// NewHealthHandler creates a new API health handler.
func NewHealthHandler(database Pinger, model ModelInfo) *HealthHandler {
	return &HealthHandler{db: database, model: model}
}

// Liveness reports that the process is serving requests. It checks no dependencies.
func (h *HealthHandler) Liveness(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Check returns 200 when the database answers and 503 otherwise. A missing
// model is reported but does not fail the check.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":       "error",
			"error":        "database unavailable",
			"model_loaded": h.model.Info().Loaded,
		})
	}

	return jsonSuccess(c, fiber.Map{
		"database":     "ok",
		"model_loaded": h.model.Info().Loaded,
	})
}
