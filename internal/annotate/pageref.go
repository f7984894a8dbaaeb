package annotate

import (
	"regexp"
	"strconv"
	"strings"
)

var sheetLeft = regexp.MustCompile(`^([A-Z]+)(\d+)$`)

// NormalizePageRef collapses noisy OCR variants of a sheet reference
// (A9.1, a9-1, A91) into the canonical form <Letter><digits>.<digits>.
//
// Returns ok=false when the input does not fit the sheet-reference grammar;
// callers treat that as "no canonical page reference found", not an error.
// Normalization is idempotent for already-canonical references.
func NormalizePageRef(raw string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(raw))

	var b strings.Builder
	for _, r := range t {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	t = b.String()

	if len(t) < 2 || !containsLetter(t) || !containsDigit(t) {
		return "", false
	}

	t = strings.ReplaceAll(t, "-", ".")
	parts := strings.Split(t, ".")

	if len(parts) == 1 {
		// No separator at all: A91 means A9.1 when the tail is digits.
		head := parts[0]
		if len(head) >= 3 && isLetter(head[0]) && allDigits(head[1:]) {
			return head[:len(head)-1] + "." + head[len(head)-1:], true
		}
		return head, true
	}

	left := parts[0]
	right := stripNonDigits(parts[1])
	if right == "" {
		return "", false
	}

	// Sheet-index correction: OCR sometimes merges a stray leading digit
	// into the index (A83.2 for A3.2). The target drawing sets use
	// single-digit sheet indices, so indices above 9 shed leading digits
	// until they fit. This is a tunable assumption, not a universal rule.
	if m := sheetLeft.FindStringSubmatch(left); m != nil {
		prefix, num := m[1], m[2]
		if n, err := strconv.Atoi(num); err == nil {
			for len(num) > 1 && n > 9 {
				num = num[1:]
				var convErr error
				n, convErr = strconv.Atoi(num)
				if convErr != nil {
					break
				}
			}
			left = prefix + num
		}
	}

	return left + "." + right, true
}

func containsLetter(s string) bool {
	for i := 0; i < len(s); i++ {
		if isLetter(s[i]) {
			return true
		}
	}
	return false
}

func containsDigit(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
