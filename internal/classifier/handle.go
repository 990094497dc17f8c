package classifier

import (
	"errors"
	"fmt"
	"io/fs"
	"sync/atomic"
	"time"

	"catalognorm/internal/models"
	"catalognorm/internal/normalize"
)

type loadedModel struct {
	model *Model
	path  string
}

// Handle holds the current model behind an atomic pointer. Predictions never
// block on Swap or Reload.
type Handle struct {
	current atomic.Pointer[loadedModel]
}

// NewHandle returns an empty handle. Predict reports normalize.ErrNoModel
// until a model is swapped in.
func NewHandle() *Handle {
	return &Handle{}
}

// Predict implements normalize.Predictor.
func (h *Handle) Predict(text string) (normalize.Prediction, error) {
	lm := h.current.Load()
	if lm == nil {
		return normalize.Prediction{}, normalize.ErrNoModel
	}
	return lm.model.Predict(text)
}

// Swap installs m as the current model.
func (h *Handle) Swap(m *Model, path string) {
	h.current.Store(&loadedModel{model: m, path: path})
}

// Model returns the current model, or nil.
func (h *Handle) Model() *Model {
	if lm := h.current.Load(); lm != nil {
		return lm.model
	}
	return nil
}

// Reload loads the artifact at path and swaps it in. On error the current
// model stays in place.
func (h *Handle) Reload(path string) error {
	m, err := Load(path)
	if err != nil {
		return err
	}
	h.Swap(m, path)
	return nil
}

// LoadIfExists reloads from path when the file exists. A missing artifact is
// not an error and leaves the handle empty.
func (h *Handle) LoadIfExists(path string) (bool, error) {
	err := h.Reload(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load model from %s: %w", path, err)
	}
	return true, nil
}

// Info describes the loaded model.
func (h *Handle) Info() models.ModelInfoResponse {
	lm := h.current.Load()
	if lm == nil {
		return models.ModelInfoResponse{}
	}
	return models.ModelInfoResponse{
		Loaded:  true,
		Path:    lm.path,
		Classes: len(lm.model.labels),
		Trained: lm.model.TrainedAt.Format(time.RFC3339),
	}
}
