package parser

import (
	"strconv"
	"strings"
	"time"

	apperrors "options-pricer/internal/errors"
)

// months maps three-letter month abbreviations to month numbers.
var months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

const monthPattern = "jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec"

// ResolveExpiry resolves a month abbreviation and optional 2-digit year
// suffix to an expiry date, e.g. "jun", "26" -> 2026-06-16.
//
// Without a year the nearest upcoming occurrence of the month is chosen:
// if the named month is on or before the current calendar month, it rolls
// to next year. The day is fixed at the 16th as an approximation of the
// standard third-Friday monthly expiry; true third Fridays fall anywhere
// from the 15th to the 21st, so these dates deviate from real listed
// option chains.
func ResolveExpiry(monthStr, yearStr string, today time.Time) (time.Time, error) {
	key := strings.ToLower(monthStr)
	if len(key) > 3 {
		key = key[:3]
	}
	month, ok := months[key]
	if !ok {
		return time.Time{}, apperrors.NewParseError(monthStr, "unknown month: %s", monthStr)
	}

	var year int
	if yearStr != "" {
		suffix, err := strconv.Atoi(yearStr)
		if err != nil {
			return time.Time{}, apperrors.NewParseError(monthStr, "unknown month: %s%s", monthStr, yearStr)
		}
		year = 2000 + suffix
	} else {
		year = today.Year()
		if month <= today.Month() {
			year++
		}
	}

	return time.Date(year, month, 16, 0, 0, 0, 0, time.UTC), nil
}
