// Package label assigns each profiled competitor a style category by
// training a small supervised model on hand-authored seed labels and
// propagating labels, with confidence, to the rest.
package label

import (
	"fmt"
	"sort"

	"github.com/okian/stint/internal/domain/model"
)

// SeedSet is the hand-authored competitor code to category mapping. It is
// an immutable input covering a deliberate minority of competitors.
type SeedSet map[string]string

// Validate checks the seed set against the closed category list and the
// profile table. A category with no seed example would silently never be
// predicted for anyone, so missing coverage is an error, not a warning.
func (s SeedSet) Validate(categories []string, profiles []model.Profile) error {
	if len(categories) == 0 {
		return ErrNoCategories
	}
	if len(s) == 0 {
		return ErrEmptySeedSet
	}

	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c] = false
	}

	profiled := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		profiled[p.Code] = true
	}

	for code, category := range s {
		seen, ok := known[category]
		if !ok {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownCategory, code, category)
		}
		if !seen {
			known[category] = true
		}
		if !profiled[code] {
			return fmt.Errorf("%w: %s", ErrUnknownSeed, code)
		}
	}

	for _, c := range categories {
		if !known[c] {
			return fmt.Errorf("%w: %s", ErrMissingCategory, c)
		}
	}

	return nil
}

// Codes returns the seeded competitor codes in sorted order.
func (s SeedSet) Codes() []string {
	codes := make([]string, 0, len(s))
	for code := range s {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
