package normalize

import "math"

// TaxonomyConfidenceFloor is the minimum confidence reported for an accepted
// fuzzy taxonomy match.
const TaxonomyConfidenceFloor = 0.85

// Policy holds the thresholds that turn stage scores into review decisions.
type Policy struct {
	// MatchThreshold is the minimum similarity for a taxonomy candidate.
	MatchThreshold float64
	// AutoApproveThreshold is the minimum confidence that clears needs_review
	// for the taxonomy and model stages. Vocabulary matches always clear it.
	AutoApproveThreshold float64
}

// DefaultPolicy returns the documented default thresholds.
func DefaultPolicy() Policy {
	return Policy{MatchThreshold: 0.7, AutoApproveThreshold: 0.9}
}

// AcceptsSimilarity reports whether a taxonomy similarity ratio counts as a match.
func (p Policy) AcceptsSimilarity(ratio float64) bool {
	return ratio >= p.MatchThreshold
}

// TaxonomyConfidence converts an accepted similarity ratio into a confidence.
func (p Policy) TaxonomyConfidence(ratio float64) float64 {
	return round2(clamp01(math.Max(ratio, TaxonomyConfidenceFloor)))
}

// ModelConfidence converts a classifier probability into a confidence. A
// classifier that exposes no probability yields zero.
func (p Policy) ModelConfidence(probability float64, ok bool) float64 {
	if !ok || math.IsNaN(probability) {
		return 0
	}
	return clamp01(probability)
}

// NeedsReview reports whether a non-vocabulary result must go to a reviewer.
func (p Policy) NeedsReview(confidence float64) bool {
	return confidence < p.AutoApproveThreshold
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
