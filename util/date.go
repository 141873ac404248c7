package util

import (
	"fmt"
	"math"
	"time"
)

const DateLayout = "2006-01-02"

// NormalizeDate returns local midnight of t in loc.
func NormalizeDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	d, err := time.ParseInLocation(DateLayout, value, loc)
	if err != nil {
		return time.Time{}, Validationf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return d, nil
}

// ParseClock parses "HH:MM" into an offset from midnight.
func ParseClock(value string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(value, "%d:%d", &h, &m); err != nil {
		return 0, Validationf("invalid time %q, expected HH:MM", value)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, Validationf("invalid time %q, expected HH:MM", value)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// HoursBetween is (to - from) in hours rounded to two decimals.
func HoursBetween(from, to time.Time) float64 {
	return Round2(float64(to.Sub(from).Milliseconds()) / 3600000)
}

// InclusiveDays counts calendar days from start to end, both included.
func InclusiveDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
