package sheet

import (
	"strings"
	"time"
)

// isoDate is the canonical key format for historical score maps
const isoDate = "2006-01-02"

// dateFormats are tried in order against unclaimed column headers.
// First match wins. The bare month-day form is last because it is the
// loosest; it gets the year resolved separately.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
}

const monthDayFormat = "01-02"

// parseHeaderDate attempts to parse a column header as a date and
// returns the resolved ISO date string. Headers that parse under none
// of the known formats are not date columns; that is not an error.
//
// For the bare month-day form the year is resolved against now: the
// current year is assumed first, and when that lands strictly in the
// future the previous year is used instead. Weekly exports keep old
// columns around across the new year, which is where the wraparound
// comes from.
func parseHeaderDate(header string, now time.Time) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, header); err == nil {
			return t.Format(isoDate), true
		}
	}

	t, err := time.Parse(monthDayFormat, header)
	if err != nil {
		return "", false
	}

	resolved := time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	if resolved.After(now) {
		resolved = resolved.AddDate(-1, 0, 0)
	}
	return resolved.Format(isoDate), true
}
