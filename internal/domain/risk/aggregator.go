// Package risk accumulates classified incidents and track-limit deletions
// into flat additive season risk scores.
package risk

import (
	"sort"

	incident "github.com/okian/stint/internal/domain/incident"
)

// Row is the season risk breakdown for one competitor.
type Row struct {
	Code                 string
	RiskScore            int // IncidentScore + TrackLimitScore
	IncidentScore        int
	TrackLimitScore      int
	TrackLimitViolations int
	Counts               map[incident.Kind]int
}

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithWeights sets the severity table used for track-limit scoring.
func WithWeights(w incident.Weights) Option {
	return func(a *Aggregator) {
		a.weights = w
	}
}

// Aggregator sums incident severity and track-limit deletions per
// competitor across a season. There is no decay and no per-event
// weighting: risk is a flat additive total.
type Aggregator struct {
	weights   incident.Weights
	incidents map[string][]incident.Incident
	deletions map[string]int
}

// NewAggregator creates an empty season aggregator.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		weights:   incident.DefaultWeights(),
		incidents: make(map[string][]incident.Incident),
		deletions: make(map[string]int),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Add records one classified incident for a competitor.
func (a *Aggregator) Add(code string, inc incident.Incident) {
	if code == "" {
		return
	}
	a.incidents[code] = append(a.incidents[code], inc)
}

// AddTrackLimitDeletion records one lap deletion for exceeding track limits.
func (a *Aggregator) AddTrackLimitDeletion(code string) {
	if code == "" {
		return
	}
	a.deletions[code]++
}

// Rows snapshots the season totals, one row per competitor that accrued at
// least one incident or deletion, sorted by descending risk score then code.
// Competitors with nothing on record surface later via zero-fill at the
// profile join.
func (a *Aggregator) Rows() []Row {
	codes := make(map[string]struct{}, len(a.incidents)+len(a.deletions))
	for code := range a.incidents {
		codes[code] = struct{}{}
	}
	for code := range a.deletions {
		codes[code] = struct{}{}
	}

	rows := make([]Row, 0, len(codes))
	for code := range codes {
		rows = append(rows, a.row(code))
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].RiskScore != rows[j].RiskScore {
			return rows[i].RiskScore > rows[j].RiskScore
		}
		return rows[i].Code < rows[j].Code
	})

	return rows
}

// Score returns the current risk row for one competitor.
func (a *Aggregator) Score(code string) Row {
	return a.row(code)
}

func (a *Aggregator) row(code string) Row {
	counts := make(map[incident.Kind]int)
	incidentScore := 0
	for _, inc := range a.incidents[code] {
		counts[inc.Kind]++
		incidentScore += inc.Severity
	}

	violations := a.deletions[code]
	trackLimitScore := a.weights.TrackLimitScore(violations)

	return Row{
		Code:                 code,
		RiskScore:            incidentScore + trackLimitScore,
		IncidentScore:        incidentScore,
		TrackLimitScore:      trackLimitScore,
		TrackLimitViolations: violations,
		Counts:               counts,
	}
}
