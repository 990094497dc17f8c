package db

import "errors"

// Domain-level database error sentinels.
var (
	// Product errors
	ErrProductNotFound = errors.New("product not found")

	// Vocabulary errors
	ErrVocabularyEntryNotFound = errors.New("vocabulary entry not found")

	// Retrain run errors
	ErrRetrainRunNotFound = errors.New("retrain run not found")
)
