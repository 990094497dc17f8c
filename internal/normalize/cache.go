package normalize

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"catalognorm/internal/models"
)

const taxonomyCacheKey = "taxonomy"

// CachedVocabulary memoizes vocabulary lookups, misses included.
type CachedVocabulary struct {
	next  VocabularyLookup
	cache *cache.Cache
}

type vocabularyCacheEntry struct {
	match VocabularyMatch
	found bool
}

// NewCachedVocabulary wraps next with a TTL cache.
func NewCachedVocabulary(next VocabularyLookup, ttl time.Duration) *CachedVocabulary {
	return &CachedVocabulary{next: next, cache: cache.New(ttl, 2*ttl)}
}

// LookupVocabulary returns the cached answer or asks the wrapped store.
// Errors are not cached.
func (c *CachedVocabulary) LookupVocabulary(ctx context.Context, token string) (VocabularyMatch, bool, error) {
	if v, ok := c.cache.Get(token); ok {
		e := v.(vocabularyCacheEntry)
		return e.match, e.found, nil
	}
	m, found, err := c.next.LookupVocabulary(ctx, token)
	if err != nil {
		return VocabularyMatch{}, false, err
	}
	c.cache.Set(token, vocabularyCacheEntry{match: m, found: found}, cache.DefaultExpiration)
	return m, found, nil
}

// Invalidate drops every cached lookup. Call after vocabulary upserts.
func (c *CachedVocabulary) Invalidate() {
	c.cache.Flush()
}

// CachedTaxonomy keeps the taxonomy reference set in memory for a TTL.
type CachedTaxonomy struct {
	next  TaxonomySource
	cache *cache.Cache
}

// NewCachedTaxonomy wraps next with a TTL cache.
func NewCachedTaxonomy(next TaxonomySource, ttl time.Duration) *CachedTaxonomy {
	return &CachedTaxonomy{next: next, cache: cache.New(ttl, 2*ttl)}
}

// TaxonomyEntries returns the cached entries or loads them from the store.
func (c *CachedTaxonomy) TaxonomyEntries(ctx context.Context) ([]models.TaxonomyEntry, error) {
	if v, ok := c.cache.Get(taxonomyCacheKey); ok {
		return v.([]models.TaxonomyEntry), nil
	}
	entries, err := c.next.TaxonomyEntries(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(taxonomyCacheKey, entries, cache.DefaultExpiration)
	return entries, nil
}

// Invalidate drops the cached entries. Call after taxonomy reloads.
func (c *CachedTaxonomy) Invalidate() {
	c.cache.Flush()
}
