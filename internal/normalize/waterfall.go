// Package normalize implements the normalization waterfall: vocabulary lookup,
// then fuzzy taxonomy matching, then the trained classifier.
package normalize

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"catalognorm/internal/models"
)

// Waterfall tries its stages in order and returns the first match.
type Waterfall struct {
	stages []Stage
	logger *slog.Logger
}

// Option configures a Waterfall.
type Option func(*Waterfall)

// WithLogger sets the logger used for degraded stages.
func WithLogger(l *slog.Logger) Option {
	return func(w *Waterfall) { w.logger = l }
}

// New builds the standard three-stage waterfall. Nil collaborators are left out.
func New(vocab VocabularyLookup, taxonomy TaxonomySource, predictor Predictor, policy Policy, opts ...Option) *Waterfall {
	var stages []Stage
	if vocab != nil {
		stages = append(stages, VocabularyStage(vocab))
	}
	if taxonomy != nil {
		stages = append(stages, TaxonomyStage(taxonomy, policy))
	}
	if predictor != nil {
		stages = append(stages, ModelStage(predictor, policy))
	}
	w := &Waterfall{stages: stages, logger: slog.Default()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Normalize runs raw through the stages. It never fails: blank input and
// failing collaborators both end in the no-match result.
func (w *Waterfall) Normalize(ctx context.Context, raw string) models.Result {
	if strings.TrimSpace(raw) == "" {
		return models.NoMatch()
	}
	res, ok := FirstMatch(ctx, raw, w.stages, w.logStageError)
	if !ok {
		return models.NoMatch()
	}
	return res
}

func (w *Waterfall) logStageError(stage models.Stage, err error) {
	if errors.Is(err, ErrNoModel) {
		w.logger.Debug("normalization stage skipped", "stage", stage, "reason", err)
		return
	}
	w.logger.Warn("normalization stage failed, treating as no match", "stage", stage, "error", err)
}

// FirstMatch runs stages in order and returns the first result with a value.
// A stage error is passed to onErr and the stage counts as no match.
func FirstMatch(ctx context.Context, raw string, stages []Stage, onErr func(models.Stage, error)) (models.Result, bool) {
	for _, s := range stages {
		res, ok, err := s.Run(ctx, raw)
		if err != nil {
			if onErr != nil {
				onErr(s.Name, err)
			}
			continue
		}
		if ok && res.Matched() {
			return res, true
		}
	}
	return models.Result{}, false
}
