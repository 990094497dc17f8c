package models

import "github.com/google/uuid"

// NormalizeResponse contains a dry-run normalization of one string.
type NormalizeResponse struct {
	Text   string `json:"text"`
	Result Result `json:"result"`
}

// IngestResponse reports how many records of a batch were persisted.
type IngestResponse struct {
	Received int `json:"received"`
	Skipped  int `json:"skipped"`
	Inserted int `json:"inserted"`
}

// RetrainAcceptedResponse is returned when a background retrain was dispatched.
type RetrainAcceptedResponse struct {
	Message string    `json:"message"`
	RunID   uuid.UUID `json:"run_id,omitempty"`
}

// ModelInfoResponse describes the currently loaded classifier.
type ModelInfoResponse struct {
	Loaded  bool   `json:"loaded"`
	Path    string `json:"path"`
	Classes int    `json:"classes"`
	Trained string `json:"trained_at,omitempty"`
}

// ReviewQueueResponse lists products awaiting review.
type ReviewQueueResponse struct {
	Pending  int64     `json:"pending"`
	Products []Product `json:"products"`
}
