// Package provider supplies already-materialized event tables to the
// pipeline. The core never fetches or caches upstream data itself.
package provider

import (
	"context"
	"sort"
	"time"

	"github.com/okian/stint/internal/domain/model"
)

// Source yields a season's schedule and per-session tables.
type Source interface {
	// Events lists every event of a season in round order.
	Events(ctx context.Context, season int) ([]model.EventRef, error)

	// Load returns the three tabular collections for one session of one
	// event. Errors are surfaced per event so a failed load skips that
	// event without aborting the season.
	Load(ctx context.Context, season int, ref model.EventRef, session model.Session) (model.SessionData, error)
}

// Completed filters the schedule down to events whose scheduled time
// precedes now, preserving round order.
func Completed(refs []model.EventRef, now time.Time) []model.EventRef {
	out := make([]model.EventRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Scheduled.Before(now) {
			out = append(out, ref)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out
}
