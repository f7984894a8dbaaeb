package annotate

import (
	"regexp"
	"strings"
)

var spaceRun = regexp.MustCompile(`\s+`)

// CleanText normalizes a raw OCR fragment: uppercase, collapse whitespace,
// strip wrapping quotes, and drop a dangling trailing slash/dash/period.
// Returns "" when nothing usable remains.
func CleanText(s string) string {
	t := strings.ToUpper(strings.TrimSpace(s))
	t = spaceRun.ReplaceAllString(t, " ")
	t = strings.Trim(t, ` '"`)
	if len(t) >= 2 {
		switch t[len(t)-1] {
		case '\\', '/', '.', '-':
			// Dangling separator, not part of a reference like A9.1.
			t = t[:len(t)-1]
		}
	}
	return strings.TrimSpace(t)
}
