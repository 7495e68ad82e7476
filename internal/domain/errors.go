package domain

import "errors"

// Domain errors.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidSettings   = errors.New("invalid settings")
	ErrCorruptRecord     = errors.New("corrupt persisted value")
)
