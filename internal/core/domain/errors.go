package domain

import "errors"

// Error taxonomy. Adapters and usecases wrap these with fmt.Errorf and %w so
// callers can classify failures with errors.Is.
var (
	// ErrSourceUnavailable means every endpoint and retry for an upstream
	// query was exhausted. The caller should surface a retry-later message.
	ErrSourceUnavailable = errors.New("data source unavailable")

	// ErrInvalidInput means a missing credential or malformed coordinate
	// input. Fails fast, never retried.
	ErrInvalidInput = errors.New("invalid input")
)
