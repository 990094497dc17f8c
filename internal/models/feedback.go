package models

import "time"

// Feedback is one reviewer decision on a product. Rows are append-only.
type Feedback struct {
	ID         int64     `json:"id"`
	ProductID  int64     `json:"product_id"`
	IsApproved bool      `json:"is_approved"`
	Correction *string   `json:"correction"`
	CreatedAt  time.Time `json:"created_at"`
}

// HasCorrection reports whether the feedback carries a non-empty correction.
func (f *Feedback) HasCorrection() bool {
	return f.Correction != nil && *f.Correction != ""
}

// TrainingPair maps an original product text to its human correction.
type TrainingPair struct {
	Original   string `json:"original"`
	Correction string `json:"correction"`
}
