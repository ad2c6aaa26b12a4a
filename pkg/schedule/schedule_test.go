package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentWeekAndDayAlternation(t *testing.T) {
	// Monday anchor
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		offsetDays int
		wantWeek   int
	}{
		{0, 1},
		{3, 1},
		{6, 1},
		{7, 2},
		{10, 2},
		{13, 2},
		{14, 1},
		{20, 1},
		{21, 2},
		{27, 2},
		{28, 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("day+%d", tt.offsetDays), func(t *testing.T) {
			now := start.AddDate(0, 0, tt.offsetDays)
			got := CurrentWeekAndDay(start, now)
			assert.Equal(t, tt.wantWeek, got.Week)
			assert.Equal(t, now.Weekday().String(), got.Day)
		})
	}
}

func TestCurrentWeekAndDayBoundaries(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// Last instant of day 6 is still week 1; first instant of day 7 is week 2
	justBefore := start.Add(7*24*time.Hour - time.Second)
	assert.Equal(t, 1, CurrentWeekAndDay(start, justBefore).Week)

	exactly := start.Add(7 * 24 * time.Hour)
	assert.Equal(t, 2, CurrentWeekAndDay(start, exactly).Week)

	wrap := start.Add(14 * 24 * time.Hour)
	assert.Equal(t, 1, CurrentWeekAndDay(start, wrap).Week)
}

func TestCurrentWeekAndDayZeroStartDefaults(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	got := CurrentWeekAndDay(time.Time{}, now)

	// 14 days back puts now at the start of the second cycle: week 1
	assert.Equal(t, 1, got.Week)
	assert.Equal(t, "Wednesday", got.Day)
}

func TestCurrentWeekAndDayFutureStartClampsToWeekOne(t *testing.T) {
	now := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	start := now.AddDate(0, 0, 30)

	got := CurrentWeekAndDay(start, now)
	assert.Equal(t, 1, got.Week)
	assert.Equal(t, "Monday", got.Day)
}

func TestCurrentWeekAndDayFrom(t *testing.T) {
	now := time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC) // Thursday

	tests := []struct {
		name      string
		startDate string
		wantWeek  int
	}{
		{"date only", "2026-03-02", 2},
		{"rfc3339", "2026-03-02T00:00:00Z", 2},
		{"same week", "2026-03-09", 1},
		{"empty falls back", "", 1},
		{"garbage falls back", "not-a-date", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CurrentWeekAndDayFrom(tt.startDate, now)
			assert.Equal(t, tt.wantWeek, got.Week)
			assert.Equal(t, "Thursday", got.Day)
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for week := 1; week <= 2; week++ {
		for _, day := range days {
			key := FormatWeekDay(week, day)
			got := ParseWeekDay(key)
			assert.Equal(t, WeekDay{Week: week, Day: day}, got, "round trip for %s", key)
		}
	}
}

func TestParseWeekDayFallbacks(t *testing.T) {
	tests := []struct {
		key  string
		want WeekDay
	}{
		{"week1_Monday", WeekDay{Week: 1, Day: "Monday"}},
		{"week2_Sunday", WeekDay{Week: 2, Day: "Sunday"}},
		{"Monday", WeekDay{Week: 1, Day: "Monday"}},
		{"weekX_Monday", WeekDay{Week: 1, Day: "weekX_Monday"}},
		{"week0_Monday", WeekDay{Week: 1, Day: "week0_Monday"}},
		{"week2_", WeekDay{Week: 1, Day: "week2_"}},
		{"", WeekDay{Week: 1, Day: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseWeekDay(tt.key))
		})
	}
}

func TestWeekDayKey(t *testing.T) {
	wd := WeekDay{Week: 2, Day: "Friday"}
	assert.Equal(t, "week2_Friday", wd.Key())
}
