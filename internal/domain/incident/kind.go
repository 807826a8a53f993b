// Package incident classifies officiating messages into severity-weighted
// incidents and scores track-limit violations.
package incident

// Kind is a classified incident category. The set is closed.
type Kind string

// Incident kinds, ordered roughly by the penalty-severity scale.
const (
	KindTimePenaltyShort Kind = "time-penalty-short"
	KindTimePenaltyLong  Kind = "time-penalty-long"
	KindDriveThrough     Kind = "drive-through"
	KindGridPenalty      Kind = "grid-penalty"
	KindCausedCollision  Kind = "caused-collision"
	KindCrashBarrier     Kind = "crash-barrier"
	KindCrashStopped     Kind = "crash-stopped"
	KindCausedRedFlag    Kind = "caused-red-flag"
	KindFalseStart       Kind = "false-start"
)

// Kinds returns every incident kind in the closed enumeration.
func Kinds() []Kind {
	return []Kind{
		KindTimePenaltyShort,
		KindTimePenaltyLong,
		KindDriveThrough,
		KindGridPenalty,
		KindCausedCollision,
		KindCrashBarrier,
		KindCrashStopped,
		KindCausedRedFlag,
		KindFalseStart,
	}
}

// Valid reports whether k belongs to the closed enumeration.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Incident is one classified message: a kind with its severity weight.
type Incident struct {
	Kind     Kind
	Severity int
}
