// Package peer converts absolute per-competitor season metrics into signed
// deltas against the competitor sharing identical equipment.
package peer

import (
	"fmt"
	"sort"
)

// Assignments maps each competitor code to its designated peer for a
// season. The table is a static input, never inferred from event data.
type Assignments map[string]string

// Validate checks the table invariants: it must be non-empty, no
// competitor may be its own peer, and every peer code must carry an
// assignment of its own so deltas can be computed from both perspectives.
// The same peer code may appear on the right side of several pairs when
// equipment assignments changed mid-season.
func (a Assignments) Validate() error {
	if len(a) == 0 {
		return ErrEmptyAssignments
	}

	for code, mate := range a {
		if code == mate {
			return fmt.Errorf("%w: %s", ErrSelfPaired, code)
		}
		if _, ok := a[mate]; !ok {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownPeer, code, mate)
		}
	}

	return nil
}

// Peer returns the designated peer for a code.
func (a Assignments) Peer(code string) (string, bool) {
	mate, ok := a[code]
	return mate, ok
}

// Codes returns every assigned competitor code in sorted order.
func (a Assignments) Codes() []string {
	codes := make([]string, 0, len(a))
	for code := range a {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
