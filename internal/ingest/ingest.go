// Package ingest runs batches of raw catalog strings through the
// normalization waterfall and persists the resulting products.
package ingest

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"catalognorm/internal/models"
)

// DefaultWorkers bounds concurrent normalization when no worker count is set.
const DefaultWorkers = 4

// Normalizer produces a normalization result for raw text. It never fails.
type Normalizer interface {
	Normalize(ctx context.Context, raw string) models.Result
}

// ProductStore persists products.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *models.Product) error
}

// Ingester normalizes and stores batches of raw records.
type Ingester struct {
	normalizer Normalizer
	store      ProductStore
	workers    int
	logger     *slog.Logger
	onBatch    func(ctx context.Context, stages map[models.Stage]int)
}

// New creates an Ingester. workers <= 0 uses DefaultWorkers.
func New(normalizer Normalizer, store ProductStore, workers int, logger *slog.Logger) *Ingester {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{normalizer: normalizer, store: store, workers: workers, logger: logger}
}

// OnBatch registers a callback invoked once per batch with the number of
// stored products per source stage. It is not called when nothing was stored.
func (i *Ingester) OnBatch(fn func(ctx context.Context, stages map[models.Stage]int)) {
	i.onBatch = fn
}

// Report summarizes one batch.
type Report struct {
	models.IngestResponse
	Products []*models.Product
}

// IngestBatch normalizes every non-blank record and persists the products in
// input order. Blank records are skipped. A failed insert is logged and the
// batch continues. Only context cancellation stops the batch early.
func (i *Ingester) IngestBatch(ctx context.Context, records []string) (Report, error) {
	report := Report{IngestResponse: models.IngestResponse{Received: len(records)}}

	results := make([]*models.Product, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.workers)
	for idx, raw := range records {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[idx] = models.NewProduct(raw, i.normalizer.Normalize(gctx, raw))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	stages := make(map[models.Stage]int)
	for idx, p := range results {
		if p == nil {
			report.Skipped++
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := i.store.CreateProduct(ctx, p); err != nil {
			i.logger.Error("failed to persist product", "index", idx, "text", p.Text, "error", err)
			continue
		}
		report.Inserted++
		report.Products = append(report.Products, p)
		stages[p.SourceStage]++
	}
	if i.onBatch != nil && len(stages) > 0 {
		i.onBatch(ctx, stages)
	}

	i.logger.Info("ingested batch",
		"received", report.Received,
		"inserted", report.Inserted,
		"skipped", report.Skipped,
	)
	return report, nil
}
