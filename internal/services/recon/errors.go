package recon

import "errors"

// Reconciliation errors
var (
	// ErrInvalidProjectID indicates an empty project identifier; a valid
	// id pointing at a deleted project is a silent no-op instead
	ErrInvalidProjectID = errors.New("invalid project ID")
)
