package domain

import "errors"

var (
	// ErrEmptyInput is returned when a submitted message is blank.
	ErrEmptyInput = errors.New("empty message")
	// ErrForbidden is returned when the caller's role or ownership does not allow the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a referenced session or message does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidFeedback is returned for feedback scores outside -1, 0, 1.
	ErrInvalidFeedback = errors.New("invalid feedback")
	// ErrInvalidContext describes a context payload that could not be used.
	// Normalisation never returns it; bad payloads degrade to an empty context.
	ErrInvalidContext = errors.New("invalid context")
)
