package seed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"catalognorm/internal/models"
)

// DefaultTaxonomyURL is the published Google product taxonomy with ids.
const DefaultTaxonomyURL = "https://www.google.com/basepages/producttype/taxonomy-with-ids.en-US.txt"

// TaxonomyStore replaces the taxonomy reference set.
type TaxonomyStore interface {
	ReplaceTaxonomy(ctx context.Context, entries []models.TaxonomyEntry) (int64, error)
}

// ParseTaxonomyLine parses one "id<TAB>path" or bare "path" line. Blank lines
// and lines starting with '#' yield ok=false.
func ParseTaxonomyLine(line string) (models.TaxonomyEntry, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return models.TaxonomyEntry{}, false
	}

	var entry models.TaxonomyEntry
	path := line
	if id, rest, found := strings.Cut(line, "\t"); found {
		id = strings.TrimSpace(id)
		if id != "" {
			entry.TaxonomyID = &id
		}
		path = strings.TrimSpace(rest)
	}
	if path == "" {
		return models.TaxonomyEntry{}, false
	}

	entry.Path = path
	entry.Label = Label(path)
	return entry, true
}

// Label returns the leaf segment of a taxonomy path: the text after the last
// '>' or, for slash-separated paths, after the last '/'.
func Label(path string) string {
	sep := "/"
	if strings.Contains(path, ">") {
		sep = ">"
	}
	parts := strings.Split(path, sep)
	return strings.TrimSpace(parts[len(parts)-1])
}

// ParseTaxonomy reads taxonomy lines from r in order.
func ParseTaxonomy(r io.Reader) ([]models.TaxonomyEntry, error) {
	var entries []models.TaxonomyEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if e, ok := ParseTaxonomyLine(scanner.Text()); ok {
			entries = append(entries, e)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy: %w", err)
	}
	return entries, nil
}

// ParseTaxonomyLines parses inline taxonomy entries.
func ParseTaxonomyLines(lines []string) []models.TaxonomyEntry {
	var entries []models.TaxonomyEntry
	for _, l := range lines {
		if e, ok := ParseTaxonomyLine(l); ok {
			entries = append(entries, e)
		}
	}
	return entries
}

// LoadTaxonomyFile parses a local taxonomy file.
func LoadTaxonomyFile(path string) ([]models.TaxonomyEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTaxonomy(f)
}

// FetchTaxonomy downloads and parses a taxonomy file.
func FetchTaxonomy(ctx context.Context, url string) ([]models.TaxonomyEntry, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch taxonomy: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch taxonomy: HTTP %s", resp.Status)
	}
	return ParseTaxonomy(resp.Body)
}
