package provider

import "errors"

// Sentinel kinds for event-source errors.
var (
	ErrNoSchedule  = errors.New("season schedule unavailable")
	ErrSessionData = errors.New("session data unavailable")
)
