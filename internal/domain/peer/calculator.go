package peer

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/stint/internal/domain/model"
)

// Clean-lap filtering constants.
const (
	// The slowest laps hide pit stops and traffic; only the fastest 80%
	// of an event's laps count toward race pace.
	cleanLapQuantile = 0.8

	// A clean-lap average needs more laps than this to be meaningful.
	minRacePaceLaps = 5
)

// Deltas is one competitor's season performance expressed against its
// peer. Positive points delta is better; negative qualifying, race-pace
// and position deltas are better.
type Deltas struct {
	Code       string
	Peer       string
	Points     float64
	Qualifying float64
	RacePace   float64
	Position   float64
}

// Calculator accumulates per-event samples keyed by event identity and
// derives signed deltas per metric. Samples are compared only across
// events where both sides of a pair hold a value for the same event;
// alignment is never positional.
type Calculator struct {
	assignments Assignments

	points     map[string]float64
	qualifying map[string]map[string]float64 // code -> event id -> best quali seconds
	racePace   map[string]map[string]float64 // code -> event id -> clean-lap average
	positions  map[string]map[string]float64 // code -> event id -> finish position
}

// NewCalculator creates a calculator over a validated assignment table.
func NewCalculator(assignments Assignments) *Calculator {
	return &Calculator{
		assignments: assignments,
		points:      make(map[string]float64),
		qualifying:  make(map[string]map[string]float64),
		racePace:    make(map[string]map[string]float64),
		positions:   make(map[string]map[string]float64),
	}
}

// AddRaceResult records championship points and the finishing position
// from one event's race result row.
func (c *Calculator) AddRaceResult(eventID string, r model.Result) {
	if r.Code == "" {
		return
	}

	c.points[r.Code] += r.Points

	if r.Finish > 0 {
		record(c.positions, r.Code, eventID, float64(r.Finish))
	}
}

// AddQualifyingResult records the best qualifying time from one event,
// preferring the most advanced segment the competitor reached.
func (c *Calculator) AddQualifyingResult(eventID string, r model.Result) {
	if r.Code == "" {
		return
	}

	for _, seconds := range []float64{r.Q3, r.Q2, r.Q1} {
		if seconds > 0 {
			record(c.qualifying, r.Code, eventID, seconds)
			return
		}
	}
}

// AddRaceLaps records a clean-lap race-pace average for one event. Laps in
// the slowest quintile are discarded before averaging, and fewer than six
// recorded laps yield no sample at all.
func (c *Calculator) AddRaceLaps(eventID, code string, lapSeconds []float64) {
	if code == "" {
		return
	}

	times := make([]float64, 0, len(lapSeconds))
	for _, s := range lapSeconds {
		if s > 0 {
			times = append(times, s)
		}
	}
	if len(times) <= minRacePaceLaps {
		return
	}

	sort.Float64s(times)
	cutoff := stat.Quantile(cleanLapQuantile, stat.LinInterp, times, nil)

	clean := make([]float64, 0, len(times))
	for _, s := range times {
		if s < cutoff {
			clean = append(clean, s)
		}
	}
	if len(clean) == 0 {
		return
	}

	record(c.racePace, code, eventID, stat.Mean(clean, nil))
}

// Deltas derives the four signed deltas for a competitor from its own
// perspective. The second return value is false when the competitor has no
// peer assignment. A metric with no overlapping events defaults to zero.
func (c *Calculator) Deltas(code string) (Deltas, bool) {
	mate, ok := c.assignments.Peer(code)
	if !ok {
		return Deltas{}, false
	}

	return Deltas{
		Code:       code,
		Peer:       mate,
		Points:     c.points[code] - c.points[mate],
		Qualifying: meanPairedDiff(c.qualifying[code], c.qualifying[mate]),
		RacePace:   meanPairedDiff(c.racePace[code], c.racePace[mate]),
		Position:   meanPairedDiff(c.positions[code], c.positions[mate]),
	}, true
}

// HasSeasonPoints reports whether a competitor scored any race entry.
func (c *Calculator) HasSeasonPoints(code string) bool {
	_, ok := c.points[code]
	return ok
}

// record stores one per-event sample for a competitor.
func record(table map[string]map[string]float64, code, eventID string, value float64) {
	byEvent, ok := table[code]
	if !ok {
		byEvent = make(map[string]float64)
		table[code] = byEvent
	}
	byEvent[eventID] = value
}

// meanPairedDiff averages (mine - theirs) over events present on both
// sides. No overlap means no evidence, which must read as neutral zero.
func meanPairedDiff(mine, theirs map[string]float64) float64 {
	if len(mine) == 0 || len(theirs) == 0 {
		return 0
	}

	diffs := make([]float64, 0, len(mine))
	for eventID, v := range mine {
		if w, ok := theirs[eventID]; ok {
			diffs = append(diffs, v-w)
		}
	}
	if len(diffs) == 0 {
		return 0
	}

	return stat.Mean(diffs, nil)
}
