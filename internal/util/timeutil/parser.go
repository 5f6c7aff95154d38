package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateFormats are tried in order of preference when parsing string dates.
var dateFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate converts a string in one of the supported formats to a UTC
// time. Unix timestamps in seconds or milliseconds are accepted too.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}

	for _, format := range dateFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.UTC(), nil
		}
	}

	if unix, err := strconv.ParseInt(value, 10, 64); err == nil {
		return FromUnix(unix), nil
	}

	return time.Time{}, fmt.Errorf("unsupported date format: %q", value)
}

// FromUnix interprets a unix timestamp as seconds or, above the
// millisecond threshold (~2001-09-09 in ms), as milliseconds.
func FromUnix(value int64) time.Time {
	if value > 1e12 {
		return time.Unix(0, value*int64(time.Millisecond)).UTC()
	}

	return time.Unix(value, 0).UTC()
}

// DayBounds returns the [00:00:00.000, 23:59:59.999] bounds of the
// calendar day containing t, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// WeekStart returns the Monday 00:00:00 of the week containing t.
func WeekStart(t time.Time) time.Time {
	day, _ := DayBounds(t)
	weekday := int(day.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday-based week
	}
	return day.AddDate(0, 0, -(weekday - 1))
}

// MonthStart returns the first day 00:00:00 of the month containing t.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// YearStart returns January 1st 00:00:00 of the year containing t.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}
