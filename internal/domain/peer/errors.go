package peer

import "errors"

// Sentinel kinds for peer-assignment errors.
var (
	ErrEmptyAssignments = errors.New("peer assignments are empty")
	ErrSelfPaired       = errors.New("competitor paired with itself")
	ErrUnknownPeer      = errors.New("peer code has no assignment of its own")
)
