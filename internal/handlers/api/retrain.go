package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"catalognorm/internal/db"
	"catalognorm/internal/models"
	"catalognorm/internal/retrain"
	"catalognorm/internal/validation"
)

// RetrainTrigger starts background retrains.
type RetrainTrigger interface {
	Start(ctx context.Context) (uuid.UUID, error)
}

// RetrainRunStore reads the retrain audit trail.
type RetrainRunStore interface {
	GetRetrainRun(ctx context.Context, id uuid.UUID) (*models.RetrainRun, error)
	ListRetrainRuns(ctx context.Context, limit int) ([]models.RetrainRun, error)
}

// ModelHandle is the swappable classifier.
type ModelHandle interface {
	Reload(path string) error
	Info() models.ModelInfoResponse
}

// ModelHandler handles retraining and model management via JSON API.
type ModelHandler struct {
	trigger   RetrainTrigger
	runs      RetrainRunStore
	model     ModelHandle
	modelPath string
}

// NewModelHandler creates a new API model handler.
func NewModelHandler(trigger RetrainTrigger, runs RetrainRunStore, model ModelHandle, modelPath string) *ModelHandler {
	return &ModelHandler{trigger: trigger, runs: runs, model: model, modelPath: modelPath}
}

// Retrain starts a background retrain and returns immediately.
func (h *ModelHandler) Retrain(c fiber.Ctx) error {
	id, err := h.trigger.Start(c.Context())
	if errors.Is(err, retrain.ErrAlreadyRunning) {
		return jsonError(c, fiber.StatusConflict, "retrain already running")
	}
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to start retrain")
	}

	return jsonStatus(c, fiber.StatusAccepted, models.RetrainAcceptedResponse{
		Message: "retrain started",
		RunID:   id,
	})
}

// ListRuns returns recent retrain attempts.
func (h *ModelHandler) ListRuns(c fiber.Ctx) error {
	limit := validation.ClampLimit(fiber.Query[int](c, "limit", 20))

	runs, err := h.runs.ListRetrainRuns(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch retrain runs")
	}
	return jsonSuccess(c, runs)
}

// GetRun returns one retrain attempt.
func (h *ModelHandler) GetRun(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid run id")
	}

	run, err := h.runs.GetRetrainRun(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrRetrainRunNotFound) {
			return jsonError(c, fiber.StatusNotFound, "retrain run not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch retrain run")
	}
	return jsonSuccess(c, run)
}

// Reload reloads the model artifact from disk.
func (h *ModelHandler) Reload(c fiber.Ctx) error {
	if err := h.model.Reload(h.modelPath); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "failed to reload model: "+err.Error())
	}
	return jsonSuccess(c, h.model.Info())
}

// Info describes the loaded model.
func (h *ModelHandler) Info(c fiber.Ctx) error {
	return jsonSuccess(c, h.model.Info())
}
