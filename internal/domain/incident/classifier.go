package incident

import (
	"regexp"
	"strings"
)

// Patterns for incident detection. Kept in one place so the priority order
// in Classify reads against the full set.
var (
	rePenaltyLong        = regexp.MustCompile(`(?i)10\s*SECOND\s*(?:TIME\s*)?PENALTY`)
	rePenaltyShort       = regexp.MustCompile(`(?i)5\s*SECOND\s*(?:TIME\s*)?PENALTY`)
	reDriveThrough       = regexp.MustCompile(`(?i)DRIVE\s*THROUGH`)
	reGridPenalty        = regexp.MustCompile(`(?i)GRID\s*(?:PLACE\s*)?PENALTY`)
	reCausedCollision    = regexp.MustCompile(`(?i)CAUSING\s+(?:A\s+)?COLLISION`)
	reFalseStart         = regexp.MustCompile(`(?i)FALSE\s*START`)
	reHitBarrier         = regexp.MustCompile(`(?i)IN\s+(?:THE\s+)?WALL|BARRIER|CRASH(?:ED)?`)
	reSpun               = regexp.MustCompile(`(?i)SPUN|SPINNING|SPIN\b`)
	reStopped            = regexp.MustCompile(`(?i)STOPPED|BEACHED|GRAVEL|ESCAPE\s+ROAD`)
	reRecoveryVehicle    = regexp.MustCompile(`(?i)RECOVERY\s+VEHICLE`)
	reCarReference       = regexp.MustCompile(`(?i)CAR\s+\d+`)
	reTurnReference      = regexp.MustCompile(`(?i)TURN\s*\d+`)
	reNoFurtherAction    = regexp.MustCompile(`(?i)NO\s+FURTHER\s+(?:ACTION|INVESTIGATION)`)
	reNoted              = regexp.MustCompile(`(?i)\bNOTED\b`)
	reUnderInvestigation = regexp.MustCompile(`(?i)UNDER\s+INVESTIGATION|WILL\s+BE\s+INVESTIGATED`)
)

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithWeights sets the severity table used for classified incidents.
func WithWeights(w Weights) Option {
	return func(c *Classifier) {
		c.weights = w
	}
}

// Classifier turns officiating message text into typed, severity-weighted
// incidents. It holds no per-message state and is safe for reuse.
type Classifier struct {
	weights Weights
}

// NewClassifier creates a classifier with the default severity table.
func NewClassifier(opts ...Option) *Classifier {
	c := &Classifier{
		weights: DefaultWeights(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsNoise reports whether a message carries no consequence and must be
// ignored. This check precedes all pattern matching: a message can contain
// alarming vocabulary and still be non-actionable.
func IsNoise(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}

	upper := strings.ToUpper(text)

	if reNoFurtherAction.MatchString(text) {
		return true
	}
	if reNoted.MatchString(text) && !strings.Contains(upper, "PENALTY") {
		return true
	}
	// Routine traffic management and procedural infringements.
	if strings.Contains(upper, "BLUE FLAG") {
		return true
	}
	if strings.Contains(upper, "PIT LANE INFRINGEMENT") {
		return true
	}
	if strings.Contains(upper, "IMPEDING") {
		return true
	}

	return false
}

// Classify maps one message to an incident. The second return value is
// false when the message is noise or matches no pattern.
//
// Patterns overlap textually, so order matters: the long time penalty must
// win over the short one, and confirmed penalties win over crash cues.
func (c *Classifier) Classify(text string) (Incident, bool) {
	if IsNoise(text) {
		return Incident{}, false
	}

	upper := strings.ToUpper(text)

	// Confirmed time and grid penalties.
	if rePenaltyLong.MatchString(text) {
		return c.incident(KindTimePenaltyLong), true
	}
	if rePenaltyShort.MatchString(text) {
		return c.incident(KindTimePenaltyShort), true
	}
	if reDriveThrough.MatchString(text) {
		return c.incident(KindDriveThrough), true
	}
	if reGridPenalty.MatchString(text) {
		return c.incident(KindGridPenalty), true
	}

	// Collisions count only when penalized or already past investigation.
	// A collision still under investigation falls through to the crash
	// cues rather than scoring on the accusation alone.
	if reCausedCollision.MatchString(text) {
		if strings.Contains(upper, "PENALTY") || !reUnderInvestigation.MatchString(text) {
			return c.incident(KindCausedCollision), true
		}
	}

	// False starts count only when a penalty was issued.
	if reFalseStart.MatchString(text) && strings.Contains(upper, "PENALTY") {
		return c.incident(KindFalseStart), true
	}

	// A red flag attributed to a specific car.
	if strings.Contains(upper, "RED FLAG") && reCarReference.MatchString(text) {
		return c.incident(KindCausedRedFlag), true
	}

	if reHitBarrier.MatchString(text) {
		return c.incident(KindCrashBarrier), true
	}

	// Spins and stoppages need a car reference to exclude commentary.
	if (reStopped.MatchString(text) || reSpun.MatchString(text)) && reCarReference.MatchString(text) {
		return c.incident(KindCrashStopped), true
	}

	// A recovery vehicle at a corner means somebody is off and stranded.
	if reRecoveryVehicle.MatchString(text) && (reTurnReference.MatchString(text) || reCarReference.MatchString(text)) {
		return c.incident(KindCrashStopped), true
	}

	return Incident{}, false
}

func (c *Classifier) incident(k Kind) Incident {
	return Incident{Kind: k, Severity: c.weights.Severity(k)}
}

// IsTrackLimitDeletion reports whether a message is a lap-time deletion for
// exceeding track limits. These are counted separately from incidents.
func IsTrackLimitDeletion(text string) bool {
	upper := strings.ToUpper(text)
	return strings.Contains(upper, "DELETED") && strings.Contains(upper, "TRACK LIMITS")
}
