package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"catalognorm/internal/models"
)

type fakeSource struct {
	products []models.Product
	pairs    []models.TrainingPair
	err      error
}

func (f *fakeSource) ListProducts(context.Context, int) ([]models.Product, error) {
	return f.products, f.err
}

func (f *fakeSource) GetTrainingPairs(context.Context) ([]models.TrainingPair, error) {
	return f.pairs, f.err
}

func strPtr(s string) *string { return &s }

func testSource() *fakeSource {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &fakeSource{
		products: []models.Product{
			{ID: 1, Text: "Nvy Cap", NormalizedValue: strPtr("Navy Cap"), Confidence: 1, SourceStage: models.StageVocabulary, CreatedAt: ts, UpdatedAt: ts},
			{ID: 2, Text: "Mystery gadget", Confidence: 0, NeedsReview: true, SourceStage: models.StageNone, CreatedAt: ts, UpdatedAt: ts},
		},
		pairs: []models.TrainingPair{
			{Original: "Rd Shirt", Correction: "Red Shirt"},
			{Original: "Blk, Jacket", Correction: "Black Jacket"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("excel")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ParseDataset("users")
	assert.ErrorIs(t, err, ErrUnknownDataset)
}

func TestExport_ProductsCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewExporter(testSource()).Export(context.Background(), &buf, DatasetProducts, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Normalized Value", records[0][2])
	assert.Equal(t, []string{"1", "Nvy Cap", "Navy Cap", "1.0000", "false", "vocabulary", "2026-01-02T03:04:05Z", "2026-01-02T03:04:05Z"}, records[1])
	assert.Equal(t, "", records[2][2])
	assert.Equal(t, "true", records[2][4])
}

func TestExport_PairsCSVQuotesCommas(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewExporter(testSource()).Export(context.Background(), &buf, DatasetPairs, FormatCSV)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"Blk, Jacket",Black Jacket`)
}

func TestExport_PairsXLSX(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewExporter(testSource()).Export(context.Background(), &buf, DatasetPairs, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Training Pairs"}, f.GetSheetList())
	rows, err := f.GetRows("Training Pairs")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Original", "Correction"},
		{"Rd Shirt", "Red Shirt"},
		{"Blk, Jacket", "Black Jacket"},
	}, rows)
}

func TestExport_SourceError(t *testing.T) {
	src := &fakeSource{err: errors.New("db down")}

	_, err := NewExporter(src).Export(context.Background(), &bytes.Buffer{}, DatasetProducts, FormatCSV)

	assert.ErrorContains(t, err, "db down")
}
