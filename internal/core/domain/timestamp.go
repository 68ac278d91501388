package domain

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// isoLayouts are tried before the general-purpose parser. Layouts without a
// zone are read in the caller's location.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// minTimestampYear is the earliest year a fallback parse may yield.
const minTimestampYear = 1900

// ParseTimestamp reads the timestamp text of an export cell. Text without
// an explicit zone is interpreted in loc (time.Local when nil). Empty or
// unrecognizable text reports false; it never fails louder than that.
func ParseTimestamp(text string, loc *time.Location) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t, true
		}
	}

	// Locale-formatted exports ("1/2/2024 15:04", "Jan 2, 2024").
	// Fragments such as "12:" come back without a year and are rejected.
	t, err := dateparse.ParseIn(text, loc, dateparse.PreferMonthFirst(true))
	if err != nil || t.Year() < minTimestampYear {
		return time.Time{}, false
	}
	return t, true
}
