package incident

import (
	"regexp"

	"github.com/okian/stint/internal/domain/model"
)

// reEmbeddedCode matches a "CAR 4 (ABC)" reference inside message text.
var reEmbeddedCode = regexp.MustCompile(`CAR\s+\d+\s*\(([A-Z]{3})\)`)

// Resolve maps a message to a competitor code. The structured car number is
// preferred; a three-letter code embedded in the text is the fallback. The
// second return value is false when no competitor can be resolved, in which
// case the message contributes to nobody's score.
func Resolve(msg model.Message, numbers map[int]string) (string, bool) {
	if msg.CarNumber > 0 {
		if code, ok := numbers[msg.CarNumber]; ok {
			return code, true
		}
	}

	if m := reEmbeddedCode.FindStringSubmatch(msg.Text); m != nil {
		return m[1], true
	}

	return "", false
}

// NumberTable builds the car number to competitor code mapping from a
// session result table.
func NumberTable(results []model.Result) map[int]string {
	numbers := make(map[int]string, len(results))
	for _, r := range results {
		if r.CarNumber > 0 && r.Code != "" {
			numbers[r.CarNumber] = r.Code
		}
	}
	return numbers
}
