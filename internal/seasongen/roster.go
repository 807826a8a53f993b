// Package seasongen produces a synthetic season on disk in the layout
// the file source reads, so the pipeline can be exercised end to end
// without upstream data.
package seasongen

// temperament drives how often a synthetic competitor draws officiating
// attention and how ragged their laps are.
type temperament int

const (
	temperamentAggressive temperament = iota
	temperamentBalanced
	temperamentConservative
)

// competitor is one synthetic roster entry.
type competitor struct {
	code   string
	number int
	pace   float64 // base lap time offset in seconds, lower is faster
	style  temperament
}

// defaultRoster is the fixed synthetic field. Pace offsets spread the
// grid; temperaments spread the incident distribution.
var defaultRoster = []competitor{
	{code: "ACE", number: 1, pace: 0.00, style: temperamentAggressive},
	{code: "BLT", number: 7, pace: 0.12, style: temperamentBalanced},
	{code: "CRU", number: 11, pace: 0.20, style: temperamentAggressive},
	{code: "DUN", number: 14, pace: 0.31, style: temperamentConservative},
	{code: "EKO", number: 16, pace: 0.38, style: temperamentBalanced},
	{code: "FIN", number: 22, pace: 0.45, style: temperamentConservative},
	{code: "GRI", number: 23, pace: 0.57, style: temperamentAggressive},
	{code: "HAV", number: 27, pace: 0.64, style: temperamentBalanced},
	{code: "IVO", number: 31, pace: 0.78, style: temperamentConservative},
	{code: "JET", number: 44, pace: 0.90, style: temperamentBalanced},
}

// pairings maps each roster code to its season-long comparison peer.
func pairings() map[string]string {
	return map[string]string{
		"ACE": "BLT", "BLT": "ACE",
		"CRU": "DUN", "DUN": "CRU",
		"EKO": "FIN", "FIN": "EKO",
		"GRI": "HAV", "HAV": "GRI",
		"IVO": "JET", "JET": "IVO",
	}
}
