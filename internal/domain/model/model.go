// Package model contains domain models passed between layers.
package model

import "time"

// Session identifies a timed session within an event.
type Session string

// Sessions processed by the pipeline.
const (
	SessionQualifying Session = "Q"
	SessionRace       Session = "R"
)

// EventRef identifies one round of competition in a season schedule.
type EventRef struct {
	ID        string    // stable event identifier, the join key for peer alignment
	Name      string    // human-readable event name
	Round     int       // round number within the season
	Scheduled time.Time // scheduled session time; completed when before now
}

// Message is one officiating message from race control.
type Message struct {
	Text      string    // free-text message body
	CarNumber int       // structured car number, 0 when absent
	Timestamp time.Time // message timestamp
}

// Lap is one recorded lap for a competitor.
// Seconds is zero when no lap time was recorded.
type Lap struct {
	Code     string  // competitor code
	Compound string  // tyre compound for this lap
	TyreAge  int     // laps on the current set
	Seconds  float64 // lap time in seconds, 0 = no time
	Pit      bool    // in- or out-lap
}

// Result is one row of a session result table.
// Qualifying segment times are in seconds; zero means no time set.
type Result struct {
	Code      string  // competitor code
	CarNumber int     // car number, the structured attribution key
	Grid      int     // grid position, 0 when not applicable
	Finish    int     // finishing position, 0 when unclassified
	Points    float64 // championship points awarded
	Q1        float64
	Q2        float64
	Q3        float64
}

// SessionData bundles the three tabular collections for one session.
type SessionData struct {
	Messages []Message
	Laps     []Lap
	Results  []Result
}

// Feature names in canonical order. This is the exact vector the
// seed-label classifier consumes.
var FeatureNames = []string{
	"risk_score",
	"points_delta",
	"qualifying_delta",
	"position_delta",
	"consistency",
	"position_change",
	"tyre_wear_slope",
}

// FeatureCount is the length of the classifier feature vector.
const FeatureCount = 7

// Profile is the full per-competitor feature row for one season.
type Profile struct {
	Code            string
	RiskScore       float64
	PointsDelta     float64
	QualifyingDelta float64
	RacePaceDelta   float64
	PositionDelta   float64
	Consistency     float64
	PositionChange  float64
	TyreWearSlope   float64
	Events          int // events with at least 3 usable laps
}

// Features returns the classifier feature vector in FeatureNames order.
// RacePaceDelta is carried for auditability but is not a model input.
func (p Profile) Features() []float64 {
	return []float64{
		p.RiskScore,
		p.PointsDelta,
		p.QualifyingDelta,
		p.PositionDelta,
		p.Consistency,
		p.PositionChange,
		p.TyreWearSlope,
	}
}

// LabeledResult is the final per-competitor output row.
type LabeledResult struct {
	Code       string
	Category   string
	Confidence float64 // 1.0 for seed rows, top class probability otherwise
	Seed       bool    // true when the category came from the seed map
	Profile    Profile
}

// FeatureWeight pairs a feature name with its relative importance.
type FeatureWeight struct {
	Feature string
	Weight  float64
}

// Summary describes one pipeline run.
type Summary struct {
	RunID             string
	Season            int
	Competitors       int
	SeedCount         int
	PredictedCount    int
	EventsProcessed   int
	EventsSkipped     int
	TrainingAccuracy  float64
	FeatureImportance []FeatureWeight // sorted by weight, descending
}

// Degraded reports whether any event's data failed to load during the run.
func (s Summary) Degraded() bool {
	return s.EventsSkipped > 0
}
