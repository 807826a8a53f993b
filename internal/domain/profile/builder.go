// Package profile derives per-competitor race-shape features and joins
// them with risk scores and peer deltas into the season profile table.
package profile

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/stint/internal/domain/model"
	peer "github.com/okian/stint/internal/domain/peer"
	risk "github.com/okian/stint/internal/domain/risk"
)

// Feature extraction constants.
const (
	// A competitor needs this many laps with recorded times in an event
	// for the event to count toward its participation.
	minUsableLaps = 3

	// A compound stint shorter than this says nothing about wear.
	minStintLaps = 6

	// Laps averaged at each end of a stint for the wear slope.
	stintEdgeLaps = 3
)

// eventFeatures are the race-shape features for one competitor in one event.
type eventFeatures struct {
	consistency    float64
	positionChange float64
	tyreWearSlope  float64
}

// DeltaSource yields peer deltas for a competitor code.
type DeltaSource interface {
	Deltas(code string) (peer.Deltas, bool)
}

// Builder accumulates per-event race-shape features and assembles the
// final profile table.
type Builder struct {
	perEvent map[string][]eventFeatures
}

// NewBuilder creates an empty profile builder.
func NewBuilder() *Builder {
	return &Builder{
		perEvent: make(map[string][]eventFeatures),
	}
}

// AddEvent extracts race-shape features for every competitor in one
// event's race session. Competitors with fewer than three usable laps are
// skipped for this event; skipping every event excludes them from the
// final table.
func (b *Builder) AddEvent(data model.SessionData) {
	lapsByCode := make(map[string][]model.Lap)
	for _, lap := range data.Laps {
		if lap.Code == "" {
			continue
		}
		lapsByCode[lap.Code] = append(lapsByCode[lap.Code], lap)
	}

	for _, result := range data.Results {
		laps := lapsByCode[result.Code]

		times := make([]float64, 0, len(laps))
		for _, lap := range laps {
			if lap.Seconds > 0 {
				times = append(times, lap.Seconds)
			}
		}
		if len(times) < minUsableLaps {
			continue
		}

		b.perEvent[result.Code] = append(b.perEvent[result.Code], eventFeatures{
			consistency:    stat.StdDev(times, nil),
			positionChange: float64(result.Grid - result.Finish),
			tyreWearSlope:  wearSlope(laps),
		})
	}
}

// wearSlope returns the worst per-compound wear over the event: the mean
// of the last three laps minus the mean of the first three, maximized
// across compounds with at least six timed laps. Negative slopes read as
// no measurable wear.
func wearSlope(laps []model.Lap) float64 {
	byCompound := make(map[string][]float64)
	for _, lap := range laps {
		if lap.Compound == "" || lap.Seconds <= 0 {
			continue
		}
		byCompound[lap.Compound] = append(byCompound[lap.Compound], lap.Seconds)
	}

	slope := 0.0
	for _, times := range byCompound {
		if len(times) < minStintLaps {
			continue
		}
		first := stat.Mean(times[:stintEdgeLaps], nil)
		last := stat.Mean(times[len(times)-stintEdgeLaps:], nil)
		if diff := last - first; diff > slope {
			slope = diff
		}
	}
	return slope
}

// Profiles assembles the season profile table: race-shape features
// averaged across events, left-joined with risk rows and peer deltas.
// Competitors absent from either side are zero-filled, never dropped.
// Rows are sorted by code so repeated runs produce identical output.
func (b *Builder) Profiles(riskRows []risk.Row, deltas DeltaSource) []model.Profile {
	riskByCode := make(map[string]risk.Row, len(riskRows))
	for _, row := range riskRows {
		riskByCode[row.Code] = row
	}

	codes := make([]string, 0, len(b.perEvent))
	for code := range b.perEvent {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	profiles := make([]model.Profile, 0, len(codes))
	for _, code := range codes {
		events := b.perEvent[code]

		consistency := make([]float64, len(events))
		positionChange := make([]float64, len(events))
		wear := make([]float64, len(events))
		for i, e := range events {
			consistency[i] = e.consistency
			positionChange[i] = e.positionChange
			wear[i] = e.tyreWearSlope
		}

		p := model.Profile{
			Code:           code,
			RiskScore:      float64(riskByCode[code].RiskScore),
			Consistency:    stat.Mean(consistency, nil),
			PositionChange: stat.Mean(positionChange, nil),
			TyreWearSlope:  stat.Mean(wear, nil),
			Events:         len(events),
		}

		if d, ok := deltas.Deltas(code); ok {
			p.PointsDelta = d.Points
			p.QualifyingDelta = d.Qualifying
			p.RacePaceDelta = d.RacePace
			p.PositionDelta = d.Position
		}

		profiles = append(profiles, p)
	}

	return profiles
}
