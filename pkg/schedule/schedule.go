// Package schedule derives the current slot in a plan's perpetual
// two-week cycle and encodes/decodes the composite week-day key used to
// index nested day maps.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultStartOffset is how far in the past the plan start is assumed
// to be when no start date is available. Two full weeks back lands the
// current day in week 1 of the cycle.
const DefaultStartOffset = 14 * 24 * time.Hour

// WeekDay is one slot in the two-week cycle.
type WeekDay struct {
	Week int    `json:"week"` // 1 or 2
	Day  string `json:"day"`  // capitalized weekday name, e.g. "Monday"
}

// CurrentWeekAndDay maps a plan start date to the current week/day
// slot. Week alternates between 1 and 2 every 7 days, anchored at
// start. A zero start defaults to 14 days before now. A start in the
// future clamps to week 1 rather than inheriting negative floor
// division.
func CurrentWeekAndDay(start, now time.Time) WeekDay {
	if start.IsZero() {
		start = now.Add(-DefaultStartOffset)
	}

	daysSinceStart := int(now.Sub(start) / (24 * time.Hour))
	if daysSinceStart < 0 {
		daysSinceStart = 0
	}

	return WeekDay{
		Week: (daysSinceStart/7)%2 + 1,
		Day:  now.Weekday().String(),
	}
}

// CurrentWeekAndDayFrom parses startDate (RFC 3339 or YYYY-MM-DD) and
// derives the current slot. An empty or unparsable startDate falls back
// to the default start offset.
func CurrentWeekAndDayFrom(startDate string, now time.Time) WeekDay {
	var start time.Time
	if startDate != "" {
		if t, err := time.Parse(time.RFC3339, startDate); err == nil {
			start = t
		} else if t, err := time.Parse("2006-01-02", startDate); err == nil {
			start = t
		}
	}
	return CurrentWeekAndDay(start, now)
}

// FormatWeekDay encodes a week/day pair as "week{N}_{Day}".
func FormatWeekDay(week int, day string) string {
	return fmt.Sprintf("week%d_%s", week, day)
}

// ParseWeekDay decodes a "week{N}_{Day}" key. Keys that do not match
// the pattern default to week 1 with the whole key as the day name,
// which keeps pre-migration single-week keys readable.
func ParseWeekDay(key string) WeekDay {
	rest, ok := strings.CutPrefix(key, "week")
	if ok {
		if numStr, day, found := strings.Cut(rest, "_"); found && day != "" {
			if week, err := strconv.Atoi(numStr); err == nil && week >= 1 {
				return WeekDay{Week: week, Day: day}
			}
		}
	}
	return WeekDay{Week: 1, Day: key}
}

// Key returns the composite key for the slot.
func (wd WeekDay) Key() string {
	return FormatWeekDay(wd.Week, wd.Day)
}
