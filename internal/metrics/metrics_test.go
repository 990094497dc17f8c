package metrics

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalognorm/internal/models"
)

type fakeStore struct {
	counts    []models.StageCount
	pending   int64
	countsErr error
	added     map[models.Stage]int64
	writes    int
}

func (f *fakeStore) IncrementStageCount(_ context.Context, stage models.Stage, n int64) error {
	if f.added == nil {
		f.added = make(map[models.Stage]int64)
	}
	f.added[stage] += n
	f.writes++
	return nil
}

func (f *fakeStore) GetStageCounts(context.Context) ([]models.StageCount, error) {
	return f.counts, f.countsErr
}

func (f *fakeStore) CountPendingProducts(context.Context) (int64, error) {
	return f.pending, nil
}

func TestCatalogCollector(t *testing.T) {
	store := &fakeStore{
		counts: []models.StageCount{
			{Stage: models.StageVocabulary, Count: 7, LastSeenAt: time.Now()},
			{Stage: models.StageNone, Count: 2, LastSeenAt: time.Now()},
		},
		pending: 3,
	}

	expected := `
# HELP catalognorm_normalizations_total Total persisted normalization outcomes by waterfall stage
# TYPE catalognorm_normalizations_total counter
catalognorm_normalizations_total{stage="none"} 2
catalognorm_normalizations_total{stage="vocabulary"} 7
# HELP catalognorm_review_queue_depth Products currently awaiting human review
# TYPE catalognorm_review_queue_depth gauge
catalognorm_review_queue_depth 3
`
	err := testutil.CollectAndCompare(NewCatalogCollector(store), strings.NewReader(expected))
	require.NoError(t, err)
}

func TestCatalogCollector_StageCountErrorStillReportsQueue(t *testing.T) {
	store := &fakeStore{countsErr: errors.New("db down"), pending: 4}

	assert.Equal(t, 1, testutil.CollectAndCount(NewCatalogCollector(store)))
}

func TestRecordRetrainAndFeedback(t *testing.T) {
	before := testutil.ToFloat64(retrainRuns.WithLabelValues(models.RunSkipped))
	RecordRetrain(models.RetrainRun{Status: models.RunSkipped})
	assert.Equal(t, before+1, testutil.ToFloat64(retrainRuns.WithLabelValues(models.RunSkipped)))

	correction := "Red Shirt"
	beforeCorrections := testutil.ToFloat64(feedbackSubmissions.WithLabelValues("correction"))
	beforeApprovals := testutil.ToFloat64(feedbackSubmissions.WithLabelValues("approval"))
	RecordFeedback(models.Feedback{Correction: &correction})
	RecordFeedback(models.Feedback{IsApproved: true})
	assert.Equal(t, beforeCorrections+1, testutil.ToFloat64(feedbackSubmissions.WithLabelValues("correction")))
	assert.Equal(t, beforeApprovals+1, testutil.ToFloat64(feedbackSubmissions.WithLabelValues("approval")))
}

func TestRecordStages(t *testing.T) {
	RecordStages(context.Background(), map[models.Stage]int{models.StageModel: 1})

	store := &fakeStore{}
	Init(store)

	RecordStages(context.Background(), map[models.Stage]int{
		models.StageVocabulary: 120,
		models.StageTaxonomy:   30,
		models.StageNone:       0,
	})

	assert.Equal(t, map[models.Stage]int64{models.StageVocabulary: 120, models.StageTaxonomy: 30}, store.added)
	assert.Equal(t, 2, store.writes)
}
