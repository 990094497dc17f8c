// Package export writes products and training pairs as CSV or XLSX.
package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"catalognorm/internal/models"
)

// Format is an output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Dataset names what to export.
type Dataset string

const (
	DatasetProducts Dataset = "products"
	DatasetPairs    Dataset = "pairs"
)

var (
	ErrUnknownFormat  = errors.New("unknown export format")
	ErrUnknownDataset = errors.New("unknown export dataset")
)

// ParseFormat accepts "csv", "xlsx" or "excel".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseDataset accepts "products" or "pairs".
func ParseDataset(s string) (Dataset, error) {
	switch Dataset(strings.ToLower(strings.TrimSpace(s))) {
	case DatasetProducts:
		return DatasetProducts, nil
	case DatasetPairs:
		return DatasetPairs, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDataset, s)
}

// Source reads the exportable data.
type Source interface {
	ListProducts(ctx context.Context, limit int) ([]models.Product, error)
	GetTrainingPairs(ctx context.Context) ([]models.TrainingPair, error)
}

// Exporter renders a dataset from a Source.
type Exporter struct {
	src Source
}

// NewExporter creates a new exporter.
func NewExporter(src Source) *Exporter {
	return &Exporter{src: src}
}

// Export writes the dataset in the given format and returns the row count.
func (e *Exporter) Export(ctx context.Context, w io.Writer, what Dataset, format Format) (int, error) {
	var (
		headers []string
		rows    [][]any
	)

	switch what {
	case DatasetProducts:
		products, err := e.src.ListProducts(ctx, 0)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch products: %w", err)
		}
		headers, rows = productRows(products)
	case DatasetPairs:
		pairs, err := e.src.GetTrainingPairs(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to fetch training pairs: %w", err)
		}
		headers, rows = pairRows(pairs)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDataset, what)
	}

	switch format {
	case FormatCSV:
		return len(rows), WriteCSV(w, headers, rows)
	case FormatXLSX:
		return len(rows), WriteXLSX(w, sheetName(what), headers, rows)
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func sheetName(what Dataset) string {
	if what == DatasetPairs {
		return "Training Pairs"
	}
	return "Products"
}

func productRows(products []models.Product) ([]string, [][]any) {
	headers := []string{"ID", "Text", "Normalized Value", "Confidence", "Needs Review", "Source Stage", "Created At", "Updated At"}
	rows := make([][]any, 0, len(products))
	for _, p := range products {
		rows = append(rows, []any{
			p.ID,
			p.Text,
			p.DisplayValue(),
			p.Confidence,
			p.NeedsReview,
			string(p.SourceStage),
			p.CreatedAt.UTC().Format(time.RFC3339),
			p.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	return headers, rows
}

func pairRows(pairs []models.TrainingPair) ([]string, [][]any) {
	headers := []string{"Original", "Correction"}
	rows := make([][]any, 0, len(pairs))
	for _, p := range pairs {
		rows = append(rows, []any{p.Original, p.Correction})
	}
	return headers, rows
}

// WriteCSV writes a header row followed by rows.
func WriteCSV(w io.Writer, headers []string, rows [][]any) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	record := make([]string, len(headers))
	for _, row := range rows {
		for i, v := range row {
			record[i] = formatCell(v)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', 4, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

// WriteXLSX writes a single-sheet workbook with a styled header row.
func WriteXLSX(w io.Writer, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style headers: %w", err)
	}

	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
