package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"catalognorm/internal/models"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Nvy", "nvy"},
		{"  Polo   Tee ", "polo tee"},
		{"STRASSE", "strasse"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), "Fold(%q)", tt.in)
	}
}

func TestBlockRatio(t *testing.T) {
	assert.Equal(t, 1.0, BlockRatio("", ""))
	assert.Equal(t, 1.0, BlockRatio("abc", "abc"))
	assert.Equal(t, 0.0, BlockRatio("abc", "xyz"))
	assert.InDelta(t, 12.0/19.0, BlockRatio("polo tee", "polo shirts"), 1e-9)
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("polo shirts", "polo shirts"))
	assert.Equal(t, 0.0, Similarity("", "polo shirts"))
	assert.GreaterOrEqual(t, Similarity("polo tee", "polo shirts"), 0.7)
	assert.Less(t, Similarity("mystery gadget", "polo shirts"), 0.7)
	assert.Less(t, Similarity("mystery gadget", "apparel > shirts > polo shirts"), 0.7)
}

func TestSimilarity_SharedPrefixDoesNotMatch(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"cook", "cookware"},
		{"a", "polo shirts"},
		{"a", "apparel > shirts > polo shirts"},
		{"home alarm", "home > kitchen > cookware"},
		{"home alarm", "cookware"},
		{"apparel cleaner", "apparel > shirts > polo shirts"},
	}
	for _, tt := range tests {
		assert.Less(t, Similarity(tt.a, tt.b), 0.7, "Similarity(%q, %q)", tt.a, tt.b)
	}
}

func TestSearchTaxonomy_RespectsPolicy(t *testing.T) {
	entries := []models.TaxonomyEntry{taxonomyEntry(1, "Apparel > Shirts > Polo Shirts")}

	_, ok := SearchTaxonomy("polo tee", entries, DefaultPolicy())
	assert.True(t, ok)

	_, ok = SearchTaxonomy("polo tee", entries, Policy{MatchThreshold: 0.99, AutoApproveThreshold: 0.9})
	assert.False(t, ok)
}

func TestSearchTaxonomy(t *testing.T) {
	entries := []models.TaxonomyEntry{
		taxonomyEntry(1, "Apparel > Shirts > Polo Shirts"),
		taxonomyEntry(2, "Apparel > Shorts > Polo Shorts"),
	}

	match, ok := SearchTaxonomy("polo shirts", entries, DefaultPolicy())
	assert.True(t, ok)
	assert.Equal(t, int64(1), match.Entry.ID)
	assert.Equal(t, "Polo Shirts", match.Value)
	assert.Equal(t, 1.0, match.Similarity)

	_, ok = SearchTaxonomy("mystery gadget", entries, DefaultPolicy())
	assert.False(t, ok)

	_, ok = SearchTaxonomy("polo shirts", nil, DefaultPolicy())
	assert.False(t, ok)
}

func TestSearchTaxonomy_FirstMaximumWins(t *testing.T) {
	entries := []models.TaxonomyEntry{
		taxonomyEntry(10, "Apparel > Polo Shirts"),
		taxonomyEntry(11, "Sportswear > Polo Shirts"),
		taxonomyEntry(12, "Apparel > Polo Shirts"),
	}

	match, ok := SearchTaxonomy("polo shirts", entries, DefaultPolicy())

	assert.True(t, ok)
	assert.Equal(t, int64(10), match.Entry.ID)
}

func TestPolicy(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, p.AcceptsSimilarity(0.7))
	assert.False(t, p.AcceptsSimilarity(0.69))

	assert.Equal(t, 0.85, p.TaxonomyConfidence(0.72))
	assert.Equal(t, 0.93, p.TaxonomyConfidence(0.934))
	assert.Equal(t, 1.0, p.TaxonomyConfidence(1.2))

	assert.Equal(t, 0.0, p.ModelConfidence(0.8, false))
	assert.Equal(t, 0.8, p.ModelConfidence(0.8, true))
	assert.Equal(t, 1.0, p.ModelConfidence(1.3, true))
	assert.Equal(t, 0.0, p.ModelConfidence(-0.1, true))

	assert.True(t, p.NeedsReview(0.89))
	assert.False(t, p.NeedsReview(0.9))
}
