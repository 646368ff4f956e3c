package fuel

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeState returns the canonical state key: diacritics stripped,
// uppercased and trimmed. It is idempotent.
func NormalizeState(name string) string {
	// Chains hold state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, name)
	if err != nil {
		stripped = name
	}
	return strings.TrimSpace(strings.ToUpper(stripped))
}

// ParseSurveyDate parses the survey's M/D/YY dates. Two-digit years below 50
// land in the 2000s, the rest in the 1900s. ok is false for anything that is
// not a real calendar date in that layout.
func ParseSurveyDate(s string) (t time.Time, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var nums [3]int
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return time.Time{}, false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return time.Time{}, false
		}
		nums[i] = n
	}

	month, day, year := nums[0], nums[1], nums[2]
	if year < 50 {
		year += 2000
	} else {
		year += 1900
	}

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow, e.g. 2/30 -> 3/2.
	if d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// parseNumber parses a decimal field. The missing-value sentinel, non-finite
// values and parse failures all report ok=false.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == MissingValue {
		return 0, false
	}
	return v, true
}

// numberOrZero is parseNumber with 0 for anything missing.
func numberOrZero(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

// parseCount parses the surveyed station count, defaulting to 0.
func parseCount(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	v, ok := parseNumber(s)
	if !ok || v < 0 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}
