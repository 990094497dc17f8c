package normalize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalognorm/internal/models"
)

func seededVocabulary() *mapVocabulary {
	return newMapVocabulary(map[string]string{
		"nvy":   "Navy",
		"rd":    "Red",
		"fl oz": "Fluid Ounce",
		"oz":    "Ounce",
	})
}

func poloTaxonomy() *sliceTaxonomy {
	return &sliceTaxonomy{entries: []models.TaxonomyEntry{
		taxonomyEntry(1, "Apparel > Shirts > Polo Shirts"),
	}}
}

func TestNormalize_BlankInputShortCircuits(t *testing.T) {
	vocab := seededVocabulary()
	tax := poloTaxonomy()
	pred := &fakePredictor{pred: Prediction{Label: "x", Confidence: 1, HasConfidence: true}}
	w := New(vocab, tax, pred, DefaultPolicy())

	for _, raw := range []string{"", "   ", "\t\n"} {
		res := w.Normalize(context.Background(), raw)
		assert.Equal(t, models.NoMatch(), res, "input %q", raw)
	}

	assert.Zero(t, vocab.calls.Load())
	assert.Zero(t, tax.calls.Load())
	assert.Zero(t, pred.calls.Load())
}

func TestNormalize_VocabularyExactMatch(t *testing.T) {
	w := New(seededVocabulary(), poloTaxonomy(), nil, DefaultPolicy())

	res := w.Normalize(context.Background(), "  NVY ")

	require.True(t, res.Matched())
	assert.Equal(t, "Navy", res.Value())
	assert.Equal(t, 1.0, res.Confidence)
	assert.False(t, res.NeedsReview)
	assert.Equal(t, models.StageVocabulary, res.Stage)
}

func TestNormalize_VocabularyTokenMatch(t *testing.T) {
	w := New(seededVocabulary(), poloTaxonomy(), nil, DefaultPolicy())

	res := w.Normalize(context.Background(), "Nvy Blue T-shirt")

	require.True(t, res.Matched())
	assert.Equal(t, "Navy Blue T-shirt", res.Value())
	assert.Equal(t, 1.0, res.Confidence)
	assert.False(t, res.NeedsReview)
	assert.Equal(t, models.StageVocabulary, res.Stage)
}

func TestNormalize_WholeStringPreferredOverTokens(t *testing.T) {
	w := New(seededVocabulary(), nil, nil, DefaultPolicy())

	res := w.Normalize(context.Background(), "Fl  Oz")

	assert.Equal(t, "Fluid Ounce", res.Value())
}

func TestNormalize_TaxonomyLabelMatch(t *testing.T) {
	w := New(seededVocabulary(), poloTaxonomy(), nil, DefaultPolicy())

	res := w.Normalize(context.Background(), "Polo tee")

	require.True(t, res.Matched())
	assert.Equal(t, "Polo Shirts", res.Value())
	assert.GreaterOrEqual(t, res.Confidence, 0.85)
	assert.Equal(t, models.StageTaxonomy, res.Stage)
	assert.Equal(t, res.Confidence < 0.9, res.NeedsReview)
}

func TestNormalize_TaxonomyPathMatch(t *testing.T) {
	w := New(nil, poloTaxonomy(), nil, DefaultPolicy())

	res := w.Normalize(context.Background(), "apparel > shirts > polo shirts")

	assert.Equal(t, "Apparel > Shirts > Polo Shirts", res.Value())
	assert.Equal(t, 1.0, res.Confidence)
	assert.False(t, res.NeedsReview)
}

func TestNormalize_FallsThroughToModel(t *testing.T) {
	tests := []struct {
		name       string
		confidence float64
	}{
		{"low confidence", 0.42},
		{"just below threshold", 0.89},
		{"at threshold", 0.9},
		{"high confidence", 0.97},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred := &fakePredictor{pred: Prediction{Label: "Gadget", Confidence: tt.confidence, HasConfidence: true}}
			w := New(seededVocabulary(), poloTaxonomy(), pred, DefaultPolicy())

			res := w.Normalize(context.Background(), "Mystery gadget")

			assert.Equal(t, models.StageModel, res.Stage)
			assert.Equal(t, "Gadget", res.Value())
			assert.Equal(t, tt.confidence, res.Confidence)
			assert.Equal(t, tt.confidence < 0.9, res.NeedsReview)
		})
	}
}

func TestNormalize_ModelWithoutProbability(t *testing.T) {
	pred := &fakePredictor{pred: Prediction{Label: "Gadget"}}
	w := New(nil, nil, pred, DefaultPolicy())

	res := w.Normalize(context.Background(), "Mystery gadget")

	assert.Equal(t, "Gadget", res.Value())
	assert.Zero(t, res.Confidence)
	assert.True(t, res.NeedsReview)
}

func TestNormalize_ModelFailureDegradesToNoMatch(t *testing.T) {
	for _, err := range []error{errUnavailable, ErrNoModel} {
		pred := &fakePredictor{err: err}
		w := New(seededVocabulary(), poloTaxonomy(), pred, DefaultPolicy())

		res := w.Normalize(context.Background(), "Mystery gadget")

		assert.Equal(t, models.NoMatch(), res)
		assert.EqualValues(t, 1, pred.calls.Load())
	}
}

func TestNormalize_FailingStoresDegrade(t *testing.T) {
	vocab := seededVocabulary()
	vocab.err = errUnavailable
	tax := poloTaxonomy()

	w := New(vocab, tax, nil, DefaultPolicy())
	res := w.Normalize(context.Background(), "Polo tee")
	assert.Equal(t, models.StageTaxonomy, res.Stage, "vocabulary failure must not stop the taxonomy stage")

	tax.err = errUnavailable
	pred := &fakePredictor{pred: Prediction{Label: "Polo Shirts", Confidence: 0.5, HasConfidence: true}}
	w = New(vocab, tax, pred, DefaultPolicy())
	res = w.Normalize(context.Background(), "Polo tee")
	assert.Equal(t, models.StageModel, res.Stage)
}

func TestNormalize_NoStageMatches(t *testing.T) {
	w := New(seededVocabulary(), poloTaxonomy(), nil, DefaultPolicy())

	res := w.Normalize(context.Background(), "Mystery gadget")

	assert.Equal(t, models.NoMatch(), res)
}

func TestNormalize_Idempotent(t *testing.T) {
	pred := &fakePredictor{pred: Prediction{Label: "Gadget", Confidence: 0.6, HasConfidence: true}}
	w := New(seededVocabulary(), poloTaxonomy(), pred, DefaultPolicy())

	for _, raw := range []string{"Nvy Blue T-shirt", "Polo tee", "Mystery gadget", ""} {
		first := w.Normalize(context.Background(), raw)
		second := w.Normalize(context.Background(), raw)
		assert.Equal(t, first, second, "input %q", raw)
	}
}

func TestNormalize_ReviewInvariant(t *testing.T) {
	policy := DefaultPolicy()
	inputs := []string{"Nvy Blue T-shirt", "rd", "Polo tee", "Polo shirt", "Mystery gadget", "", "apparel > shirts > polo shirts"}
	for _, c := range []float64{0, 0.3, 0.89, 0.9, 1, 1.4, -0.2} {
		pred := &fakePredictor{pred: Prediction{Label: "Gadget", Confidence: c, HasConfidence: true}}
		w := New(seededVocabulary(), poloTaxonomy(), pred, policy)
		for _, raw := range inputs {
			res := w.Normalize(context.Background(), raw)
			assert.GreaterOrEqual(t, res.Confidence, 0.0)
			assert.LessOrEqual(t, res.Confidence, 1.0)
			if !res.NeedsReview {
				assert.True(t, res.Confidence >= policy.AutoApproveThreshold || res.Stage == models.StageVocabulary,
					"input %q auto-approved with confidence %v from %s", raw, res.Confidence, res.Stage)
			}
		}
	}
}

func TestNormalize_PrefixOnlyInputsFallThrough(t *testing.T) {
	tax := &sliceTaxonomy{entries: []models.TaxonomyEntry{
		taxonomyEntry(1, "Apparel > Shirts > Polo Shirts"),
		taxonomyEntry(2, "Home > Kitchen > Cookware"),
	}}
	w := New(seededVocabulary(), tax, nil, DefaultPolicy())

	for _, raw := range []string{"a", "cook", "home alarm", "apparel cleaner"} {
		res := w.Normalize(context.Background(), raw)
		assert.Equal(t, models.NoMatch(), res, "input %q", raw)
	}

	res := w.Normalize(context.Background(), "Polo tee")
	assert.Equal(t, "Polo Shirts", res.Value())
}

func TestFirstMatch_ReportsErrorsAndContinues(t *testing.T) {
	value := "ok"
	var failed []models.Stage
	stages := []Stage{
		{Name: models.StageVocabulary, Run: func(context.Context, string) (models.Result, bool, error) {
			return models.Result{}, false, errUnavailable
		}},
		{Name: models.StageTaxonomy, Run: func(context.Context, string) (models.Result, bool, error) {
			return models.Result{}, false, nil
		}},
		{Name: models.StageModel, Run: func(context.Context, string) (models.Result, bool, error) {
			return models.Result{NormalizedValue: &value, Stage: models.StageModel}, true, nil
		}},
	}

	res, ok := FirstMatch(context.Background(), "x", stages, func(s models.Stage, err error) {
		failed = append(failed, s)
	})

	require.True(t, ok)
	assert.Equal(t, "ok", res.Value())
	assert.Equal(t, []models.Stage{models.StageVocabulary}, failed)
}
