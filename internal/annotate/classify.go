package annotate

import (
	"regexp"
	"strings"
)

// allowedChars is the full character repertoire of plausible drawing labels.
var allowedChars = regexp.MustCompile(`^[A-Za-z0-9."'/()\s-]+$`)

// tokenPatterns are the whitespace-delimited token shapes that mark a string
// as construction text. Ordered roughly by how often they appear on real
// drawings; any single match accepts the whole string.
var tokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z]{3,}$`),                // WORDS like CORRIDOR
	regexp.MustCompile(`^(UP|DN|NO|ID|LV|EL|TYP|RM)$`), // common 2-letter plan abbreviations
	regexp.MustCompile(`^[A-Z]+\d+[A-Z]?$`),          // W1, W12A
	regexp.MustCompile(`^[A-Z]+\d+(\.\d+)?$`),        // A3.1, B12.2
	regexp.MustCompile(`^\d{2,4}$`),                  // room tags like 101, 1203
	regexp.MustCompile(`^\d+(\.\d+)?["']?$`),         // 12, 12.5, 12.5"
	regexp.MustCompile(`^\d+/\d+["']?$`),             // fractions like 1/2"
}

var alphaWord = regexp.MustCompile(`^[A-Za-z]+$`)

// IsConstructionText reports whether a normalized string is a plausible
// construction-drawing label.
//
// This is a precision-oriented filter: it deliberately drops short or oddly
// shaped tokens rather than letting OCR noise through, and it is tuned for
// drawing conventions (sheet codes, numeric room tags, short all-caps
// labels). A string with no pattern-matching token is still accepted when
// every token is a whole alphabetic word of three or more letters.
func IsConstructionText(text string) bool {
	t := strings.TrimSpace(text)
	if len(t) < 2 {
		return false
	}
	if !allowedChars.MatchString(t) {
		return false
	}

	tokens := strings.Fields(t)
	for _, tok := range tokens {
		if len(tok) < 2 {
			continue
		}
		for _, pat := range tokenPatterns {
			if pat.MatchString(tok) {
				return true
			}
		}
	}

	// Whole-word label fallback: "OPEN SHELL", "stair", etc.
	for _, tok := range tokens {
		if len(tok) < 3 || !alphaWord.MatchString(tok) {
			return false
		}
	}
	return true
}
