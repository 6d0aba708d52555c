package domain

import "errors"

// Lifecycle operations fail with exactly one of these sentinels so the
// HTTP layer can map them to distinct user-facing responses.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
)
