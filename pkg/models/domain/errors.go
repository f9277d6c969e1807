package domain

import "errors"

var (
	// ErrTargetNotFound means the scan target path does not exist or
	// cannot be read. The scan aborts entirely.
	ErrTargetNotFound = errors.New("target not found")

	// ErrInvalidRule means a rule definition failed validation at
	// catalog build time. Malformed rules are never silently defaulted.
	ErrInvalidRule = errors.New("invalid rule definition")
)
