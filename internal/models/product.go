package models

import "time"

// Product is a raw catalog string together with its latest normalization.
type Product struct {
	ID              int64     `json:"id"`
	Text            string    `json:"text"`
	NormalizedValue *string   `json:"normalized_value"`
	Confidence      float64   `json:"confidence"`
	NeedsReview     bool      `json:"needs_review"`
	SourceStage     Stage     `json:"source_stage"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewProduct builds an unsaved product from raw text and a normalization result.
func NewProduct(text string, res Result) *Product {
	return &Product{
		Text:            text,
		NormalizedValue: res.NormalizedValue,
		Confidence:      res.Confidence,
		NeedsReview:     res.NeedsReview,
		SourceStage:     res.Stage,
	}
}

// DisplayValue returns the normalized value or an empty string when unset.
func (p *Product) DisplayValue() string {
	if p.NormalizedValue == nil {
		return ""
	}
	return *p.NormalizedValue
}
