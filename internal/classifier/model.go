// Package classifier implements the trainable text classifier used as the last
// normalization stage: a naive Bayes model over stemmed unigrams and bigrams,
// trained from reviewer corrections.
package classifier

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/navossoc/bayesian"

	"catalognorm/internal/models"
	"catalognorm/internal/normalize"
)

// ArtifactVersion is bumped whenever the serialized model layout changes.
const ArtifactVersion = 2

// ErrNoTrainingData is returned by Train when no usable pair was given.
var ErrNoTrainingData = errors.New("no usable training pairs")

// Model is a trained classifier. It is immutable once built and safe for
// concurrent use.
type Model struct {
	TrainedAt time.Time
	Documents int

	labels []string
	// nb is nil when every pair shares one label.
	nb *bayesian.Classifier
}

// Train fits a fresh model on pairs. Pairs with a blank original or correction
// are ignored.
func Train(pairs []models.TrainingPair) (*Model, error) {
	type doc struct {
		features []string
		label    string
	}
	var docs []doc
	seen := make(map[string]struct{})
	for _, p := range pairs {
		label := strings.TrimSpace(p.Correction)
		if label == "" || strings.TrimSpace(p.Original) == "" {
			continue
		}
		docs = append(docs, doc{features: Features(p.Original), label: label})
		seen[label] = struct{}{}
	}
	if len(docs) == 0 {
		return nil, ErrNoTrainingData
	}

	m := &Model{TrainedAt: time.Now().UTC(), Documents: len(docs)}
	for label := range seen {
		m.labels = append(m.labels, label)
	}
	sort.Strings(m.labels)
	if len(m.labels) < 2 {
		return m, nil
	}

	classes := make([]bayesian.Class, len(m.labels))
	for i, label := range m.labels {
		classes[i] = bayesian.Class(label)
	}
	m.nb = bayesian.NewClassifier(classes...)
	for _, d := range docs {
		m.nb.Learn(d.features, bayesian.Class(d.label))
	}
	return m, nil
}

// Labels returns the output labels in model order.
func (m *Model) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Probabilities returns the posterior probability of every class for text,
// in the order of Labels. Features never seen during training shift every
// class equally and so leave the posterior unchanged.
func (m *Model) Probabilities(text string) []float64 {
	switch len(m.labels) {
	case 0:
		return nil
	case 1:
		return []float64{1}
	}
	scores, _, _ := m.nb.LogScores(Features(text))
	return softmax(scores)
}

// Predict returns the most probable label and its probability. Ties go to the
// label that sorts first.
func (m *Model) Predict(text string) (normalize.Prediction, error) {
	probs := m.Probabilities(text)
	if len(probs) == 0 {
		return normalize.Prediction{}, normalize.ErrNoModel
	}
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	return normalize.Prediction{
		Label:         m.labels[best],
		Confidence:    probs[best],
		HasConfidence: true,
	}, nil
}

func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		if s > maxScore {
			maxScore = s
		}
	}
	out := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
