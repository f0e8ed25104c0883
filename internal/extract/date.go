package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// "30 Okt 2025", "10 May 19", "21 November 2024".
	namedMonthPattern = regexp.MustCompile(`(\d{1,2})\s+([A-Za-z]+)\s+(\d{2,4})`)

	// "2024-11-21", "2024/11/21".
	isoDatePattern = regexp.MustCompile(`(\d{4})[./-](\d{1,2})[./-](\d{1,2})`)

	// "21/11/2024", "21-11-24", "21.11.2024". Day-first by default.
	numericDatePattern = regexp.MustCompile(`(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})`)
)

const maxDateAge = 10 * 365 * 24 * time.Hour

// ExtractDate finds and normalizes a transaction date from free-form OCR
// text. Matchers run in order; the first one producing a plausible calendar
// date wins. Day-first ordering is the default for ambiguous numeric dates,
// swapped only when the day value rules it out.
func ExtractDate(text string) (time.Time, bool) {
	if m := namedMonthPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		year := normalizeYear(m[3])
		if month, ok := lookupMonth(m[2]); ok {
			if d, ok := plausibleDate(year, int(month), day); ok {
				return d, true
			}
		}
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if d, ok := plausibleDate(year, month, day); ok {
			return d, true
		}
	}

	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		first, _ := strconv.Atoi(m[1])
		second, _ := strconv.Atoi(m[2])
		year := normalizeYear(m[3])

		day, month := first, second
		if first <= 12 && second > 12 {
			// Only a month fits in the first position.
			day, month = second, first
		}
		if d, ok := plausibleDate(year, month, day); ok {
			return d, true
		}
	}

	return time.Time{}, false
}

func lookupMonth(name string) (time.Month, bool) {
	key := strings.ToLower(name)
	if len(key) > 3 {
		key = key[:3]
	}
	month, ok := monthNames[key]
	return month, ok
}

// normalizeYear expands two-digit years, assuming the 2000s below 50.
func normalizeYear(s string) int {
	year, _ := strconv.Atoi(s)
	if year < 100 {
		if year < 50 {
			return 2000 + year
		}
		return 1900 + year
	}
	return year
}

// plausibleDate rejects impossible calendar dates (normalization drift such
// as Feb 31 rolling into March), dates beyond tomorrow, and dates older
// than ten years.
func plausibleDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	now := time.Now().UTC()
	if d.After(now.Add(24 * time.Hour)) {
		return time.Time{}, false
	}
	if now.Sub(d) > maxDateAge {
		return time.Time{}, false
	}
	return d, true
}
