package normalize

import (
	"context"
	"errors"
	"strings"

	"catalognorm/internal/models"
)

// ErrNoModel is returned by a Predictor that has no trained model loaded.
var ErrNoModel = errors.New("no classifier model loaded")

// VocabularyMatch is the canonical form stored for a token or phrase.
type VocabularyMatch struct {
	Normalized string
	Category   *string
}

// VocabularyLookup resolves a folded token or phrase to its canonical form.
type VocabularyLookup interface {
	LookupVocabulary(ctx context.Context, token string) (VocabularyMatch, bool, error)
}

// TaxonomySource lists the taxonomy reference entries in a stable order.
type TaxonomySource interface {
	TaxonomyEntries(ctx context.Context) ([]models.TaxonomyEntry, error)
}

// Prediction is a classifier output. HasConfidence is false for classifiers
// that only return a label.
type Prediction struct {
	Label         string
	Confidence    float64
	HasConfidence bool
}

// Predictor maps raw text to a normalized label.
type Predictor interface {
	Predict(text string) (Prediction, error)
}

// Stage is one step of the waterfall. It returns ok=false when it has no
// normalized value for text; err reports a failing collaborator.
type Stage struct {
	Name models.Stage
	Run  func(ctx context.Context, raw string) (res models.Result, ok bool, err error)
}

// VocabularyStage matches the whole string first, then individual tokens.
func VocabularyStage(vocab VocabularyLookup) Stage {
	return Stage{Name: models.StageVocabulary, Run: func(ctx context.Context, raw string) (models.Result, bool, error) {
		key := Fold(raw)
		m, found, err := vocab.LookupVocabulary(ctx, key)
		if err != nil {
			return models.Result{}, false, err
		}
		if found {
			return vocabularyResult(m.Normalized), true, nil
		}

		fields := strings.Fields(raw)
		out := make([]string, len(fields))
		matched := false
		for i, field := range fields {
			m, found, err := vocab.LookupVocabulary(ctx, Fold(field))
			if err != nil {
				return models.Result{}, false, err
			}
			if found {
				out[i] = m.Normalized
				matched = true
				continue
			}
			out[i] = field
		}
		if !matched {
			return models.Result{}, false, nil
		}
		return vocabularyResult(strings.Join(out, " ")), true, nil
	}}
}

func vocabularyResult(value string) models.Result {
	return models.Result{NormalizedValue: &value, Confidence: 1, NeedsReview: false, Stage: models.StageVocabulary}
}

// TaxonomyMatch is the best taxonomy candidate for a string.
type TaxonomyMatch struct {
	Entry      models.TaxonomyEntry
	Value      string // label or path, whichever scored higher
	Similarity float64
}

// SearchTaxonomy finds the entry most similar to the folded text. Label and
// path are scored separately and the larger counts for the entry. The first
// entry reaching the maximum wins. ok is false when policy rejects the score.
func SearchTaxonomy(folded string, entries []models.TaxonomyEntry, policy Policy) (TaxonomyMatch, bool) {
	var best TaxonomyMatch
	found := false
	for _, e := range entries {
		labelScore := Similarity(folded, Fold(e.Label))
		pathScore := Similarity(folded, Fold(e.Path))

		score, value := labelScore, e.Label
		if pathScore > labelScore {
			score, value = pathScore, e.Path
		}
		if !found || score > best.Similarity {
			best = TaxonomyMatch{Entry: e, Value: value, Similarity: score}
			found = true
		}
	}
	if !found || !policy.AcceptsSimilarity(best.Similarity) || best.Value == "" {
		return TaxonomyMatch{}, false
	}
	return best, true
}

// TaxonomyStage fuzzy-matches against the taxonomy reference set.
func TaxonomyStage(source TaxonomySource, policy Policy) Stage {
	return Stage{Name: models.StageTaxonomy, Run: func(ctx context.Context, raw string) (models.Result, bool, error) {
		entries, err := source.TaxonomyEntries(ctx)
		if err != nil {
			return models.Result{}, false, err
		}
		match, ok := SearchTaxonomy(Fold(raw), entries, policy)
		if !ok {
			return models.Result{}, false, nil
		}
		value := match.Value
		confidence := policy.TaxonomyConfidence(match.Similarity)
		return models.Result{
			NormalizedValue: &value,
			Confidence:      confidence,
			NeedsReview:     policy.NeedsReview(confidence),
			Stage:           models.StageTaxonomy,
		}, true, nil
	}}
}

// ModelStage asks the classifier for a label.
func ModelStage(predictor Predictor, policy Policy) Stage {
	return Stage{Name: models.StageModel, Run: func(ctx context.Context, raw string) (models.Result, bool, error) {
		pred, err := predictor.Predict(raw)
		if err != nil {
			return models.Result{}, false, err
		}
		if pred.Label == "" {
			return models.Result{}, false, nil
		}
		label := pred.Label
		confidence := policy.ModelConfidence(pred.Confidence, pred.HasConfidence)
		return models.Result{
			NormalizedValue: &label,
			Confidence:      confidence,
			NeedsReview:     policy.NeedsReview(confidence),
			Stage:           models.StageModel,
		}, true, nil
	}}
}
