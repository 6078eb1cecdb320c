package services

import "errors"

// Error taxonomy for the share lifecycle. Handlers map these 1:1 to HTTP
// statuses; anything else is a storage failure and surfaces as a generic
// internal error.
var (
	// ErrEmptyContent means the clipboard has nothing to share.
	ErrEmptyContent = errors.New("clipboard is empty")

	// ErrInvalidID means a caller-supplied custom id is malformed or reserved.
	ErrInvalidID = errors.New("invalid share id")

	// ErrIDConflict means a caller-supplied custom id is already taken by a
	// live share record.
	ErrIDConflict = errors.New("share id already exists")

	// ErrShareNotFound covers both missing and undecodable share records.
	ErrShareNotFound = errors.New("share not found")
)
