// Package feedback records reviewer decisions on normalized products.
package feedback

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"catalognorm/internal/models"
	"catalognorm/internal/validation"
)

// ErrInvalidCorrection is returned when a correction fails validation.
var ErrInvalidCorrection = errors.New("invalid correction")

// Store persists feedback. RecordFeedback must insert the feedback row and
// update the product atomically, and report the store's not-found sentinel for
// an unknown product.
type Store interface {
	RecordFeedback(ctx context.Context, fb *models.Feedback) error
}

// Service validates and records feedback submissions.
type Service struct {
	store   Store
	logger  *slog.Logger
	onSaved func(models.Feedback)
}

// NewService creates a feedback service.
func NewService(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// OnSaved registers a callback run after every recorded submission.
func (s *Service) OnSaved(fn func(models.Feedback)) {
	s.onSaved = fn
}

// Submit records one reviewer decision. A non-empty correction overwrites the
// product's normalized value; the product always leaves the review queue.
func (s *Service) Submit(ctx context.Context, productID int64, isApproved bool, correction *string) (*models.Feedback, error) {
	fb := &models.Feedback{ProductID: productID, IsApproved: isApproved}
	if correction != nil {
		c := strings.TrimSpace(*correction)
		if ok, msg := validation.ValidateCorrection(c); !ok {
			return nil, errors.Join(ErrInvalidCorrection, errors.New(msg))
		}
		if c != "" {
			fb.Correction = &c
		}
	}

	if err := s.store.RecordFeedback(ctx, fb); err != nil {
		return nil, err
	}

	s.logger.Info("feedback recorded",
		"product_id", productID,
		"approved", isApproved,
		"corrected", fb.HasCorrection(),
	)
	if s.onSaved != nil {
		s.onSaved(*fb)
	}
	return fb, nil
}
