package seasongen

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/okian/stint/pkg/logger"
)

// Shape of the synthetic season.
const (
	defaultRounds = 10
	defaultSeed   = 7
	raceLaps      = 50
	q2Cutoff      = 7
	q3Cutoff      = 5
)

// Lap-time model constants, in seconds.
const (
	baseLapSeconds = 90.0
	qualifyingTrim = 1.2
	segmentGain    = 0.25
	roundPaceSwing = 0.4
	fuelSavePerLap = 0.01
)

// Per-temperament noise and degradation.
const (
	noiseAggressive   = 0.55
	noiseBalanced     = 0.32
	noiseConservative = 0.18

	wearAggressive   = 0.034
	wearBalanced     = 0.019
	wearConservative = 0.009
)

// Per-race incident odds by temperament.
const (
	collisionOddsAggressive   = 0.22
	collisionOddsBalanced     = 0.06
	collisionOddsConservative = 0.01

	spinOddsAggressive   = 0.18
	spinOddsBalanced     = 0.08
	spinOddsConservative = 0.03

	trackLimitMeanAggressive   = 2.4
	trackLimitMeanBalanced     = 1.0
	trackLimitMeanConservative = 0.3

	noiseMessageOdds = 0.5
)

var pointsTable = []float64{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// Config controls the generated season.
type Config struct {
	Season  int
	Rounds  int
	Seed    int64
	DataDir string
}

// Generator writes one synthetic season to disk.
type Generator struct {
	cfg Config
	rng *rand.Rand
	log logger.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithLogger overrides the generator's logger.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// New creates a generator. The seed makes runs reproducible.
func New(cfg Config, opts ...Option) *Generator {
	if cfg.Rounds <= 0 {
		cfg.Rounds = defaultRounds
	}
	if cfg.Seed == 0 {
		cfg.Seed = defaultSeed
	}
	g := &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate writes schedule.json plus one qualifying and one race
// document per round under <dataDir>/<season>/.
func (g *Generator) Generate(ctx context.Context) error {
	// Resolved here rather than in New so that construction never
	// depends on process-wide logger state.
	if g.log == nil {
		g.log = logger.Get()
	}

	seasonDir := filepath.Join(g.cfg.DataDir, strconv.Itoa(g.cfg.Season))
	if err := os.MkdirAll(seasonDir, 0o755); err != nil {
		return fmt.Errorf("create season directory: %w", err)
	}

	g.log.Info(ctx, "generating synthetic season",
		logger.Int("season", g.cfg.Season),
		logger.Int("rounds", g.cfg.Rounds),
		logger.Int("competitors", len(defaultRoster)))

	firstStart := time.Date(g.cfg.Season, time.March, 1, 14, 0, 0, 0, time.UTC)
	schedule := make([]scheduleEntry, g.cfg.Rounds)

	for round := 1; round <= g.cfg.Rounds; round++ {
		start := firstStart.AddDate(0, 0, (round-1)*14)
		schedule[round-1] = scheduleEntry{
			ID:        fmt.Sprintf("%d-%02d", g.cfg.Season, round),
			Name:      fmt.Sprintf("Round %d Grand Prix", round),
			Round:     round,
			Scheduled: start,
		}

		qualifying, grid := g.qualifying(start)
		race := g.race(start, grid)

		if err := g.writeSession(seasonDir, round, "Q", qualifying); err != nil {
			return err
		}
		if err := g.writeSession(seasonDir, round, "R", race); err != nil {
			return err
		}
	}

	raw, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(seasonDir, "schedule.json"), raw, 0o644); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}

	g.log.Info(ctx, "season written", logger.String("dir", seasonDir))
	return nil
}

// qualifying builds a qualifying result table and returns the race grid
// order derived from it.
func (g *Generator) qualifying(start time.Time) (sessionDocument, []competitor) {
	swing := make(map[string]float64, len(defaultRoster))
	type qRow struct {
		c          competitor
		q1, q2, q3 float64
		best       float64
	}

	rows := make([]qRow, len(defaultRoster))
	for i, c := range defaultRoster {
		swing[c.code] = (g.rng.Float64()*2 - 1) * roundPaceSwing
		base := baseLapSeconds - qualifyingTrim + c.pace + swing[c.code]
		row := qRow{c: c}
		row.q1 = base + g.rng.Float64()*g.noise(c.style)
		row.best = row.q1
		rows[i] = row
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].best < rows[j].best })
	for i := range rows {
		if i < q2Cutoff {
			rows[i].q2 = rows[i].q1 - segmentGain + g.rng.Float64()*g.noise(rows[i].c.style)
			rows[i].best = rows[i].q2
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].best < rows[j].best })
	for i := range rows {
		if i < q3Cutoff {
			rows[i].q3 = rows[i].q2 - segmentGain + g.rng.Float64()*g.noise(rows[i].c.style)
			rows[i].best = rows[i].q3
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].best < rows[j].best })

	doc := sessionDocument{}
	grid := make([]competitor, len(rows))
	for i, row := range rows {
		grid[i] = row.c
		doc.Results = append(doc.Results, resultEntry{
			Code:      row.c.code,
			CarNumber: row.c.number,
			Q1:        round3(row.q1),
			Q2:        round3(row.q2),
			Q3:        round3(row.q3),
		})
	}
	doc.Messages = g.qualifyingMessages(start, grid)
	return doc, grid
}

// race simulates the race session: full lap tables, a finish order from
// accumulated time, and the officiating feed.
func (g *Generator) race(start time.Time, grid []competitor) sessionDocument {
	doc := sessionDocument{}
	raceStart := start.AddDate(0, 0, 1)

	type total struct {
		c       competitor
		seconds float64
	}
	totals := make([]total, len(grid))

	for gi, c := range grid {
		wear := g.wear(c.style)
		noise := g.noise(c.style)
		compound := "MEDIUM"
		tyreAge := 0
		elapsed := float64(gi) * 0.5 // grid stagger

		for lap := 1; lap <= raceLaps; lap++ {
			if lap == raceLaps/2 {
				compound = "HARD"
				tyreAge = 0
			}
			tyreAge++
			pit := lap == raceLaps/2 || lap == raceLaps/2+1

			seconds := baseLapSeconds + c.pace +
				wear*float64(tyreAge) -
				fuelSavePerLap*float64(lap) +
				g.rng.Float64()*noise
			if pit {
				seconds += 20.0
			}
			elapsed += seconds

			doc.Laps = append(doc.Laps, lapEntry{
				Code:     c.code,
				Compound: compound,
				TyreAge:  tyreAge,
				Seconds:  round3(seconds),
				Pit:      pit,
			})
		}
		totals[gi] = total{c: c, seconds: elapsed}
	}

	sort.Slice(totals, func(i, j int) bool { return totals[i].seconds < totals[j].seconds })

	gridPos := make(map[string]int, len(grid))
	for i, c := range grid {
		gridPos[c.code] = i + 1
	}
	for i, t := range totals {
		points := 0.0
		if i < len(pointsTable) {
			points = pointsTable[i]
		}
		doc.Results = append(doc.Results, resultEntry{
			Code:      t.c.code,
			CarNumber: t.c.number,
			Grid:      gridPos[t.c.code],
			Finish:    i + 1,
			Points:    points,
		})
	}

	doc.Messages = g.raceMessages(raceStart, grid)
	return doc
}

// raceMessages emits an officiating feed matching each temperament's
// incident odds, plus administrative chatter that must classify as
// noise.
func (g *Generator) raceMessages(start time.Time, grid []competitor) []messageEntry {
	var msgs []messageEntry
	at := func(min int) time.Time { return start.Add(time.Duration(min) * time.Minute) }
	minute := 2

	for _, c := range grid {
		collisionOdds, spinOdds, limitMean := g.incidentOdds(c.style)

		if g.rng.Float64() < collisionOdds {
			msgs = append(msgs, messageEntry{
				Text:      fmt.Sprintf("FIA STEWARDS: 10 SECOND TIME PENALTY FOR CAR %d (%s) - CAUSING A COLLISION", c.number, c.code),
				CarNumber: c.number,
				Timestamp: at(minute),
			})
			minute += 3
		}
		if g.rng.Float64() < spinOdds {
			msgs = append(msgs, messageEntry{
				Text:      fmt.Sprintf("CAR %d (%s) SPUN AT TURN %d AND REJOINED", c.number, c.code, 1+g.rng.Intn(14)),
				CarNumber: c.number,
				Timestamp: at(minute),
			})
			minute += 2
		}
		deletions := g.poisson(limitMean)
		for d := 0; d < deletions; d++ {
			msgs = append(msgs, messageEntry{
				Text:      fmt.Sprintf("CAR %d (%s) LAP TIME DELETED - TRACK LIMITS AT TURN %d", c.number, c.code, 1+g.rng.Intn(14)),
				CarNumber: c.number,
				Timestamp: at(minute),
			})
			minute++
		}
	}

	if g.rng.Float64() < noiseMessageOdds {
		leader := grid[0]
		backmarker := grid[len(grid)-1]
		msgs = append(msgs, messageEntry{
			Text:      fmt.Sprintf("BLUE FLAG FOR CAR %d (%s) - CAR %d (%s) APPROACHING", backmarker.number, backmarker.code, leader.number, leader.code),
			CarNumber: backmarker.number,
			Timestamp: at(minute),
		})
	}
	msgs = append(msgs, messageEntry{
		Text:      "TRACK LIMITS WILL BE MONITORED AT TURNS 4, 9 AND 14 - NO FURTHER ACTION REQUIRED FROM TEAMS",
		Timestamp: at(minute + 1),
	})
	return msgs
}

func (g *Generator) qualifyingMessages(start time.Time, grid []competitor) []messageEntry {
	var msgs []messageEntry
	for _, c := range grid {
		_, _, limitMean := g.incidentOdds(c.style)
		if g.rng.Float64() < limitMean/4 {
			msgs = append(msgs, messageEntry{
				Text:      fmt.Sprintf("CAR %d (%s) LAP TIME DELETED - TRACK LIMITS AT TURN %d", c.number, c.code, 1+g.rng.Intn(14)),
				CarNumber: c.number,
				Timestamp: start.Add(12 * time.Minute),
			})
		}
	}
	return msgs
}

func (g *Generator) incidentOdds(t temperament) (collision, spin, limitMean float64) {
	switch t {
	case temperamentAggressive:
		return collisionOddsAggressive, spinOddsAggressive, trackLimitMeanAggressive
	case temperamentConservative:
		return collisionOddsConservative, spinOddsConservative, trackLimitMeanConservative
	default:
		return collisionOddsBalanced, spinOddsBalanced, trackLimitMeanBalanced
	}
}

func (g *Generator) noise(t temperament) float64 {
	switch t {
	case temperamentAggressive:
		return noiseAggressive
	case temperamentConservative:
		return noiseConservative
	default:
		return noiseBalanced
	}
}

func (g *Generator) wear(t temperament) float64 {
	switch t {
	case temperamentAggressive:
		return wearAggressive
	case temperamentConservative:
		return wearConservative
	default:
		return wearBalanced
	}
}

// poisson draws a small Poisson count via inversion. Means here are
// tiny, so the loop terminates in a handful of iterations.
func (g *Generator) poisson(mean float64) int {
	if mean <= 0 {
		return 0
	}
	limit := 1.0
	for i := 0; i < 20; i++ {
		limit *= g.rng.Float64()
		if limit < expNeg(mean) {
			return i
		}
	}
	return 20
}

func (g *Generator) writeSession(dir string, round int, session string, doc sessionDocument) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	name := fmt.Sprintf("%02d_%s.json", round, session)
	if err := os.WriteFile(filepath.Join(dir, name), raw, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", name, err)
	}
	return nil
}

func round3(v float64) float64 {
	if v == 0 {
		return 0
	}
	return float64(int(v*1000+0.5)) / 1000
}
