package parley

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrNotFound indicates a reference to an unknown conversation id.
	ErrNotFound = errors.New("conversation not found")

	// ErrMessageNotFound indicates a reference to an unknown message id.
	ErrMessageNotFound = errors.New("message not found")

	// ErrValidation indicates a catalogue or intent failed validation.
	ErrValidation = errors.New("validation error")
)
