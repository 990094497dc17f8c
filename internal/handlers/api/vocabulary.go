package api

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"catalognorm/internal/db"
	"catalognorm/internal/models"
	"catalognorm/internal/validation"
)

// VocabularyStore manages vocabulary entries.
type VocabularyStore interface {
	ListVocabulary(ctx context.Context) ([]models.VocabularyEntry, error)
	UpsertVocabulary(ctx context.Context, e *models.VocabularyEntry) error
	DeleteVocabulary(ctx context.Context, token string) error
}

// VocabularyHandler handles vocabulary management via JSON API.
type VocabularyHandler struct {
	store   VocabularyStore
	changed func()
}

// NewVocabularyHandler creates a new API vocabulary handler. changed runs
// after every successful write, typically to drop lookup caches.
func NewVocabularyHandler(store VocabularyStore, changed func()) *VocabularyHandler {
	if changed == nil {
		changed = func() {}
	}
	return &VocabularyHandler{store: store, changed: changed}
}

// List returns every vocabulary entry.
func (h *VocabularyHandler) List(c fiber.Ctx) error {
	entries, err := h.store.ListVocabulary(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch vocabulary")
	}
	return jsonSuccess(c, entries)
}

// Upsert creates or replaces the mapping for a token.
func (h *VocabularyHandler) Upsert(c fiber.Ctx) error {
	var body struct {
		Token      string  `json:"token"`
		Normalized string  `json:"normalized"`
		Category   *string `json:"category"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if !validation.ValidateVocabularyToken(body.Token) {
		return jsonError(c, fiber.StatusBadRequest, "invalid token")
	}
	body.Normalized = strings.TrimSpace(body.Normalized)
	if body.Normalized == "" {
		return jsonError(c, fiber.StatusBadRequest, "normalized is required")
	}

	entry := &models.VocabularyEntry{
		Token:      body.Token,
		Normalized: body.Normalized,
		Category:   body.Category,
		Source:     models.SourceAPI,
	}
	if err := h.store.UpsertVocabulary(c.Context(), entry); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to save vocabulary entry")
	}
	h.changed()

	return jsonSuccess(c, entry)
}

// Delete removes the entry for a token.
func (h *VocabularyHandler) Delete(c fiber.Ctx) error {
	token, err := url.PathUnescape(c.Params("token"))
	if err != nil || !validation.ValidateVocabularyToken(token) {
		return jsonError(c, fiber.StatusBadRequest, "invalid token")
	}

	if err := h.store.DeleteVocabulary(c.Context(), token); err != nil {
		if errors.Is(err, db.ErrVocabularyEntryNotFound) {
			return jsonError(c, fiber.StatusNotFound, "vocabulary entry not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to delete vocabulary entry")
	}
	h.changed()

	return c.SendStatus(fiber.StatusNoContent)
}
