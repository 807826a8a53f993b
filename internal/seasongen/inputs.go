package seasongen

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Seed labels for the synthetic roster: one clear exemplar per
// temperament extreme, leaving the rest for the classifier to place.
var seedLabels = map[string]string{
	"ACE": "aggressive",
	"GRI": "aggressive",
	"BLT": "balanced",
	"JET": "balanced",
	"DUN": "conservative",
	"IVO": "conservative",
}

// WriteInputs writes a ready-to-use pipeline inputs file for the
// synthetic roster: categories, peer pairings, and seed labels.
func WriteInputs(path string) error {
	var b strings.Builder
	b.WriteString("categories:\n")
	b.WriteString("  - aggressive\n")
	b.WriteString("  - balanced\n")
	b.WriteString("  - conservative\n")

	b.WriteString("peers:\n")
	peers := pairings()
	codes := make([]string, 0, len(peers))
	for code := range peers {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		fmt.Fprintf(&b, "  %s: %s\n", code, peers[code])
	}

	b.WriteString("seeds:\n")
	seeds := make([]string, 0, len(seedLabels))
	for code := range seedLabels {
		seeds = append(seeds, code)
	}
	sort.Strings(seeds)
	for _, code := range seeds {
		fmt.Fprintf(&b, "  %s: %s\n", code, seedLabels[code])
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
