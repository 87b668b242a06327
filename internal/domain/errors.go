package domain

import "errors"

// Sentinel errors for invalid grid declarations. All of them are fatal and
// are raised during the merge phase, before any output file is written.
var (
	// ErrMalformedGridValue reports a grid-marked key whose value is not a
	// sequence of scalar or scalar-list candidates.
	ErrMalformedGridValue = errors.New("grid value must be a list of scalar or scalar-list candidates")

	// ErrEmptyGridAxis reports a grid-marked key with zero candidates.
	ErrEmptyGridAxis = errors.New("grid axis has no candidates")

	// ErrDuplicateGridAxis reports the same axis path declared more than once.
	ErrDuplicateGridAxis = errors.New("grid axis declared more than once")
)
