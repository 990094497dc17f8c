package api

import (
	"context"
	"errors"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"

	"catalognorm/internal/db"
	"catalognorm/internal/ingest"
	"catalognorm/internal/models"
	"catalognorm/internal/validation"
)

// MaxBatchSize caps the records accepted by one JSON ingest request.
const MaxBatchSize = 5000

// Normalizer runs the normalization waterfall.
type Normalizer interface {
	Normalize(ctx context.Context, raw string) models.Result
}

// BatchIngester normalizes and persists batches.
type BatchIngester interface {
	IngestBatch(ctx context.Context, records []string) (ingest.Report, error)
}

// ProductStore reads persisted products.
type ProductStore interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetPendingProducts(ctx context.Context, limit int) ([]models.Product, error)
	CountPendingProducts(ctx context.Context) (int64, error)
}

// ProductHandler handles normalization and product ingestion via JSON API.
type ProductHandler struct {
	normalizer Normalizer
	ingester   BatchIngester
	store      ProductStore
}

// NewProductHandler creates a new API product handler.
func NewProductHandler(normalizer Normalizer, ingester BatchIngester, store ProductStore) *ProductHandler {
	return &ProductHandler{normalizer: normalizer, ingester: ingester, store: store}
}

// Normalize runs one string through the waterfall without persisting it.
func (h *ProductHandler) Normalize(c fiber.Ctx) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if valid, msg := validation.ValidateProductText(body.Text); !valid {
		return jsonError(c, fiber.StatusBadRequest, msg)
	}

	return jsonSuccess(c, models.NormalizeResponse{
		Text:   body.Text,
		Result: h.normalizer.Normalize(c.Context(), body.Text),
	})
}

// Ingest normalizes and stores a JSON batch of raw strings.
func (h *ProductHandler) Ingest(c fiber.Ctx) error {
	var body struct {
		Texts []string `json:"texts"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if len(body.Texts) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "texts must not be empty")
	}
	if len(body.Texts) > MaxBatchSize {
		return jsonError(c, fiber.StatusRequestEntityTooLarge, "batch exceeds "+strconv.Itoa(MaxBatchSize)+" records")
	}

	return h.ingest(c, body.Texts)
}

// Upload ingests the records of a CSV file sent as multipart field "file".
func (h *ProductHandler) Upload(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "failed to open upload")
	}
	defer f.Close()

	records, err := ingest.ReadCSV(f)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid csv: "+err.Error())
	}
	if len(records) == 0 {
		return jsonError(c, fiber.StatusBadRequest, "csv contains no records")
	}

	return h.ingest(c, records)
}

func (h *ProductHandler) ingest(c fiber.Ctx, records []string) error {
	report, err := h.ingester.IngestBatch(c.Context(), records)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "ingestion interrupted")
	}
	return jsonStatus(c, fiber.StatusCreated, report.IngestResponse)
}

// Get returns one product by id.
func (h *ProductHandler) Get(c fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid product id")
	}

	p, err := h.store.GetProductByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, db.ErrProductNotFound) {
			return jsonError(c, fiber.StatusNotFound, "product not found")
		}
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch product")
	}
	return jsonSuccess(c, p)
}

// List returns the most recently ingested products.
func (h *ProductHandler) List(c fiber.Ctx) error {
	limit := validation.ClampLimit(fiber.Query[int](c, "limit", validation.DefaultListLimit))

	products, err := h.store.ListProducts(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch products")
	}
	return jsonSuccess(c, products)
}

// ReviewQueue returns products awaiting review, oldest first.
func (h *ProductHandler) ReviewQueue(c fiber.Ctx) error {
	limit := validation.ClampLimit(fiber.Query[int](c, "limit", validation.DefaultListLimit))

	products, err := h.store.GetPendingProducts(c.Context(), limit)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to fetch review queue")
	}
	pending, err := h.store.CountPendingProducts(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to count review queue")
	}

	return jsonSuccess(c, models.ReviewQueueResponse{Pending: pending, Products: products})
}
