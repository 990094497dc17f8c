package api

import (
	"context"
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"catalognorm/internal/db"
	"catalognorm/internal/feedback"
	"catalognorm/internal/models"
)

// FeedbackSubmitter records reviewer decisions.
type FeedbackSubmitter interface {
	Submit(ctx context.Context, productID int64, isApproved bool, correction *string) (*models.Feedback, error)
}

// FeedbackHandler handles reviewer feedback via JSON API.
type FeedbackHandler struct {
	feedback FeedbackSubmitter
}

// NewFeedbackHandler creates a new API feedback handler.
func NewFeedbackHandler(submitter FeedbackSubmitter) *FeedbackHandler {
	return &FeedbackHandler{feedback: submitter}
}

// Submit approves or corrects a product.
func (h *FeedbackHandler) Submit(c fiber.Ctx) error {
	var body struct {
		ProductID  *int64  `json:"product_id"`
		IsApproved *bool   `json:"is_approved"`
		Correction *string `json:"correction"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if body.ProductID == nil {
		return jsonError(c, fiber.StatusBadRequest, "product_id is required")
	}
	if body.IsApproved == nil {
		return jsonError(c, fiber.StatusBadRequest, "is_approved is required")
	}

	fb, err := h.feedback.Submit(c.Context(), *body.ProductID, *body.IsApproved, body.Correction)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrProductNotFound):
			return jsonError(c, fiber.StatusNotFound, "product not found")
		case errors.Is(err, feedback.ErrInvalidCorrection):
			return jsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to record feedback")
	}

	return jsonStatus(c, fiber.StatusCreated, fb)
}
