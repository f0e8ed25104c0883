package extract

import (
	"strings"
	"unicode"
)

const (
	// merchantScanWindow bounds how many non-blank header lines are
	// considered before giving up; store branding sits at the very top.
	merchantScanWindow = 5

	merchantMinLen = 3
	merchantMaxLen = 60
)

// ExtractMerchant identifies the store name from the header region of the
// receipt: the first non-blank line that reads like branding rather than a
// date, an amount or an address.
func ExtractMerchant(text string) (string, bool) {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scanned++
		if scanned > merchantScanWindow {
			break
		}
		if merchantCandidate(line) {
			return line, true
		}
	}
	return "", false
}

func merchantCandidate(line string) bool {
	if len(line) < merchantMinLen || len(line) > merchantMaxLen {
		return false
	}
	// Lines opening with a digit are dates, amounts or street numbers.
	if unicode.IsDigit(rune(line[0])) {
		return false
	}
	if containsAny(strings.ToLower(line), merchantSkipWords) {
		return false
	}
	return hasLetter(line)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
