package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ReadCSV extracts raw records from a CSV export. Files with both a Handle and
// a Title column (Shopify exports) yield "handle | title" for rows where both
// are set. Otherwise a "text", "title" or "handle" column is used, and failing
// that the first column. The first row is always the header.
func ReadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	handleCol, titleCol, textCol := -1, -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "handle":
			handleCol = i
		case "title":
			titleCol = i
		case "text":
			textCol = i
		}
	}

	column := 0
	for _, c := range []int{textCol, titleCol, handleCol} {
		if c >= 0 {
			column = c
			break
		}
	}
	shopify := handleCol >= 0 && titleCol >= 0

	var records []string
	extract := func(row []string) {
		if !shopify {
			records = append(records, field(row, column))
			return
		}
		handle, title := field(row, handleCol), field(row, titleCol)
		if handle != "" && title != "" {
			records = append(records, handle+" | "+title)
		}
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		extract(row)
	}
	return records, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
