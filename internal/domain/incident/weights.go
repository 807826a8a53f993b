package incident

// Default severity weights. These encode the officiating penalty-severity
// scale; they are domain knowledge, not tunables.
const (
	defaultWeightTimePenaltyShort = 5
	defaultWeightTimePenaltyLong  = 8
	defaultWeightDriveThrough     = 10
	defaultWeightGridPenalty      = 5
	defaultWeightCausedCollision  = 10
	defaultWeightCrashBarrier     = 8
	defaultWeightCrashStopped     = 6
	defaultWeightCausedRedFlag    = 12
	defaultWeightFalseStart       = 5
	defaultWeightTrackLimitUnit   = 3

	// The first two track-limit deletions in a season are free; a pattern
	// starts at the third.
	trackLimitFreeViolations = 2
)

// Weights is an immutable severity table passed into the components that
// score incidents.
type Weights struct {
	byKind         map[Kind]int
	trackLimitUnit int
}

// DefaultWeights returns the standard severity table.
func DefaultWeights() Weights {
	return Weights{
		byKind: map[Kind]int{
			KindTimePenaltyShort: defaultWeightTimePenaltyShort,
			KindTimePenaltyLong:  defaultWeightTimePenaltyLong,
			KindDriveThrough:     defaultWeightDriveThrough,
			KindGridPenalty:      defaultWeightGridPenalty,
			KindCausedCollision:  defaultWeightCausedCollision,
			KindCrashBarrier:     defaultWeightCrashBarrier,
			KindCrashStopped:     defaultWeightCrashStopped,
			KindCausedRedFlag:    defaultWeightCausedRedFlag,
			KindFalseStart:       defaultWeightFalseStart,
		},
		trackLimitUnit: defaultWeightTrackLimitUnit,
	}
}

// Severity returns the weight for a kind, 0 for unknown kinds.
func (w Weights) Severity(k Kind) int {
	return w.byKind[k]
}

// TrackLimitScore converts a season deletion count into a risk score.
// Occasional violations are universal; only persistent offenders score.
func (w Weights) TrackLimitScore(violations int) int {
	if violations <= trackLimitFreeViolations {
		return 0
	}
	return (violations - trackLimitFreeViolations) * w.trackLimitUnit
}
