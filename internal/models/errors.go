package models

import "errors"

// Sentinel errors shared by storage, the debt engine and the transport layer.
// Callers wrap them with context and match with errors.Is.
var (
	// ErrValidation covers non-positive amounts, unknown enum values and missing fields.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound means no debt, person or type matched for the account.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCanceled is returned when canceling a debt that is already canceled.
	ErrAlreadyCanceled = errors.New("debt already canceled")

	// ErrConcurrencyConflict means a debt changed between read and write.
	ErrConcurrencyConflict = errors.New("concurrent modification")
)
