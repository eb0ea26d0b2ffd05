// Package datetime provides date utility functions.
package datetime

import (
	"fmt"
	"time"

	"github.com/lachho/property-sub000/pkg/constants"
)

// DateLayout is the format expected in config files and requests, and is also
// the output date format.
const DateLayout = constants.DateLayout

// ParseDate parses a YYYY-MM-DD date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// MustParseDate parses a date and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// StartOfDay truncates t to midnight UTC of its UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
