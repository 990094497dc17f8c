// Package seed loads reference data: the abbreviation vocabulary and the
// product taxonomy.
package seed

import (
	"context"
	"fmt"
	"strings"

	"catalognorm/internal/config"
	"catalognorm/internal/models"
)

// Vocabulary categories
const (
	CategorySize     = "Size"
	CategoryColor    = "Color"
	CategoryGender   = "Gender"
	CategoryFeature  = "Feature"
	CategoryMaterial = "Material"
	CategoryUnit     = "Unit"
	CategoryQuantity = "Quantity"
	CategoryProduct  = "Product"
)

// DefaultVocabulary is the built-in list of common catalog abbreviations.
var DefaultVocabulary = []config.VocabularySeed{
	{Token: "sm", Normalized: "Small", Category: CategorySize},
	{Token: "sml", Normalized: "Small", Category: CategorySize},
	{Token: "md", Normalized: "Medium", Category: CategorySize},
	{Token: "med", Normalized: "Medium", Category: CategorySize},
	{Token: "lg", Normalized: "Large", Category: CategorySize},
	{Token: "lrg", Normalized: "Large", Category: CategorySize},
	{Token: "xl", Normalized: "Extra Large", Category: CategorySize},
	{Token: "xxl", Normalized: "2XL", Category: CategorySize},
	{Token: "os", Normalized: "One Size", Category: CategorySize},
	{Token: "osfa", Normalized: "One Size Fits All", Category: CategorySize},
	{Token: "l", Normalized: "Large", Category: CategorySize},
	{Token: "m", Normalized: "Medium", Category: CategorySize},
	{Token: "s", Normalized: "Small", Category: CategorySize},

	{Token: "nvy", Normalized: "Navy", Category: CategoryColor},
	{Token: "blk", Normalized: "Black", Category: CategoryColor},
	{Token: "wht", Normalized: "White", Category: CategoryColor},
	{Token: "grn", Normalized: "Green", Category: CategoryColor},
	{Token: "gry", Normalized: "Gray", Category: CategoryColor},
	{Token: "slvr", Normalized: "Silver", Category: CategoryColor},
	{Token: "multi", Normalized: "Multicolor", Category: CategoryColor},
	{Token: "rd", Normalized: "Red", Category: CategoryColor},

	{Token: "wmns", Normalized: "Women's", Category: CategoryGender},
	{Token: "womens", Normalized: "Women's", Category: CategoryGender},
	{Token: "mens", Normalized: "Men's", Category: CategoryGender},

	{Token: "s/s", Normalized: "Short Sleeve", Category: CategoryFeature},
	{Token: "l/s", Normalized: "Long Sleeve", Category: CategoryFeature},
	{Token: "btn", Normalized: "Button", Category: CategoryFeature},
	{Token: "v-neck", Normalized: "V-Neck", Category: CategoryFeature},
	{Token: "ctn", Normalized: "Cotton", Category: CategoryMaterial},
	{Token: "poly", Normalized: "Polyester", Category: CategoryMaterial},

	{Token: "oz", Normalized: "Ounce", Category: CategoryUnit},
	{Token: "fl oz", Normalized: "Fluid Ounce", Category: CategoryUnit},
	{Token: "ml", Normalized: "Milliliter", Category: CategoryUnit},
	{Token: "lb", Normalized: "Pound", Category: CategoryUnit},
	{Token: "kg", Normalized: "Kilogram", Category: CategoryUnit},
	{Token: "ea", Normalized: "Each", Category: CategoryQuantity},
	{Token: "pk", Normalized: "Pack", Category: CategoryQuantity},
	{Token: "pkg", Normalized: "Package", Category: CategoryQuantity},

	{Token: "sneaks", Normalized: "Sneakers", Category: CategoryProduct},
}

// VocabularyStore persists vocabulary entries.
type VocabularyStore interface {
	UpsertVocabulary(ctx context.Context, e *models.VocabularyEntry) error
}

// VocabularyEntries converts seed rows into entries tagged with the seed source.
// Later rows for the same token replace earlier ones.
func VocabularyEntries(seeds []config.VocabularySeed) []models.VocabularyEntry {
	entries := make([]models.VocabularyEntry, 0, len(seeds))
	for _, s := range seeds {
		token := strings.TrimSpace(s.Token)
		normalized := strings.TrimSpace(s.Normalized)
		if token == "" || normalized == "" {
			continue
		}
		e := models.VocabularyEntry{Token: token, Normalized: normalized, Source: models.SourceSeed}
		if c := strings.TrimSpace(s.Category); c != "" {
			e.Category = &c
		}
		entries = append(entries, e)
	}
	return entries
}

// SeedVocabulary upserts entries and returns how many were written.
func SeedVocabulary(ctx context.Context, store VocabularyStore, entries []models.VocabularyEntry) (int, error) {
	n := 0
	for i := range entries {
		if err := store.UpsertVocabulary(ctx, &entries[i]); err != nil {
			return n, fmt.Errorf("failed to seed vocabulary %q: %w", entries[i].Token, err)
		}
		n++
	}
	return n, nil
}
