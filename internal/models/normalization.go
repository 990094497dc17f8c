package models

// Stage identifies which waterfall stage produced a result.
type Stage string

// Waterfall stage constants
const (
	StageVocabulary Stage = "vocabulary"
	StageTaxonomy   Stage = "taxonomy"
	StageModel      Stage = "model"
	StageNone       Stage = "none"
)

// Stages lists every stage in waterfall order, followed by the no-match outcome.
var Stages = []Stage{StageVocabulary, StageTaxonomy, StageModel, StageNone}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	for _, known := range Stages {
		if s == known {
			return true
		}
	}
	return false
}

// Result is the outcome of normalizing one raw string. It is a value type and
// is never mutated after creation.
type Result struct {
	NormalizedValue *string `json:"normalized_value"`
	Confidence      float64 `json:"confidence"`
	NeedsReview     bool    `json:"needs_review"`
	Stage           Stage   `json:"source_stage"`
}

// NoMatch is the result for blank input or when every stage fails.
func NoMatch() Result {
	return Result{Confidence: 0, NeedsReview: true, Stage: StageNone}
}

// Matched reports whether the result carries a normalized value.
func (r Result) Matched() bool {
	return r.NormalizedValue != nil
}

// Value returns the normalized value or "" when there is none.
func (r Result) Value() string {
	if r.NormalizedValue == nil {
		return ""
	}
	return *r.NormalizedValue
}
