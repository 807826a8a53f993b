package label

import "errors"

// Sentinel kinds for seed-label validation errors. All of these are fatal
// before any model fitting starts.
var (
	ErrEmptySeedSet    = errors.New("seed set is empty")
	ErrMissingCategory = errors.New("seed set covers no example of a category")
	ErrUnknownCategory = errors.New("seed label uses a category outside the closed set")
	ErrUnknownSeed     = errors.New("seed code is not present in the profile table")
	ErrNoCategories    = errors.New("no categories configured")
)
