package models

import "errors"

// Domain-level errors shared across services
var (
	// ErrMalformedDate indicates a date cell that does not parse as YYYY-MM-DD
	ErrMalformedDate = errors.New("malformed date")
)
