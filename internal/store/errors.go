package store

import "errors"

// Store-level errors
var (
	// ErrRowOutOfRange indicates a positional write or delete addressed a
	// row that no longer exists; the caller should re-read and retry with
	// a fresh position
	ErrRowOutOfRange = errors.New("row index out of range")
)
