package normalize

import (
	"context"
	"errors"
	"sync/atomic"

	"catalognorm/internal/models"
)

type mapVocabulary struct {
	entries map[string]string
	err     error
	calls   atomic.Int64
}

func newMapVocabulary(entries map[string]string) *mapVocabulary {
	return &mapVocabulary{entries: entries}
}

func (m *mapVocabulary) LookupVocabulary(_ context.Context, token string) (VocabularyMatch, bool, error) {
	m.calls.Add(1)
	if m.err != nil {
		return VocabularyMatch{}, false, m.err
	}
	v, ok := m.entries[token]
	if !ok {
		return VocabularyMatch{}, false, nil
	}
	return VocabularyMatch{Normalized: v}, true, nil
}

type sliceTaxonomy struct {
	entries []models.TaxonomyEntry
	err     error
	calls   atomic.Int64
}

func (s *sliceTaxonomy) TaxonomyEntries(context.Context) ([]models.TaxonomyEntry, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

type fakePredictor struct {
	pred  Prediction
	err   error
	calls atomic.Int64
}

func (f *fakePredictor) Predict(string) (Prediction, error) {
	f.calls.Add(1)
	return f.pred, f.err
}

var errUnavailable = errors.New("collaborator unavailable")

func taxonomyEntry(id int64, path string) models.TaxonomyEntry {
	label := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '>' {
			label = path[i+1:]
			break
		}
	}
	for len(label) > 0 && label[0] == ' ' {
		label = label[1:]
	}
	return models.TaxonomyEntry{ID: id, Path: path, Label: label}
}
