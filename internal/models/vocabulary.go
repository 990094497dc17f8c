package models

import "time"

// Vocabulary entry sources
const (
	SourceSeed = "seed"
	SourceAPI  = "api"
)

// VocabularyEntry maps a case-folded token or phrase to its canonical form.
type VocabularyEntry struct {
	ID         int64     `json:"id"`
	Token      string    `json:"token"`
	Normalized string    `json:"normalized"`
	Category   *string   `json:"category"`
	Source     string    `json:"source"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
