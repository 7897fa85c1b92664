package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tuesday, October 21, 2025.
var anchor = time.Date(2025, time.October, 21, 10, 0, 0, 0, time.UTC)

func TestNextOccurrence(t *testing.T) {
	tests := []struct {
		name string
		day  time.Weekday
		want time.Time
	}{
		{"later this week", time.Friday, time.Date(2025, time.October, 24, 10, 0, 0, 0, time.UTC)},
		{"earlier in week rolls forward", time.Monday, time.Date(2025, time.October, 27, 10, 0, 0, 0, time.UTC)},
		{"same day means next week", time.Tuesday, time.Date(2025, time.October, 28, 10, 0, 0, 0, time.UTC)},
		{"saturday", time.Saturday, time.Date(2025, time.October, 25, 10, 0, 0, 0, time.UTC)},
		{"sunday", time.Sunday, time.Date(2025, time.October, 26, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextOccurrence(anchor, tt.day)
			assert.Equal(t, tt.want.Year(), got.Year())
			assert.Equal(t, tt.want.Month(), got.Month())
			assert.Equal(t, tt.want.Day(), got.Day())
			assert.Equal(t, tt.day, got.Weekday())
		})
	}
}

func TestNextOccurrenceAlwaysFuture(t *testing.T) {
	// Property: result is strictly after the anchor and at most 7 days out,
	// and lands on the requested weekday.
	for offset := 0; offset < 7; offset++ {
		a := anchor.AddDate(0, 0, offset)
		for _, day := range Weekdays {
			got := NextOccurrence(a, day)
			distance := int(got.Sub(a).Hours() / 24)
			assert.Greater(t, distance, 0, "anchor %s day %s", a.Weekday(), day)
			assert.LessOrEqual(t, distance, 7, "anchor %s day %s", a.Weekday(), day)
			assert.Equal(t, day, got.Weekday())
		}
	}
}

func TestTomorrow(t *testing.T) {
	got := Tomorrow(anchor)
	assert.Equal(t, 22, got.Day())
	assert.Equal(t, time.Wednesday, got.Weekday())

	// Month rollover.
	endOfMonth := time.Date(2025, time.October, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.November, Tomorrow(endOfMonth).Month())
}

func TestNextWeekBlock(t *testing.T) {
	block := NextWeekBlock(anchor)
	require.Len(t, block, 7)
	assert.Equal(t, 27, block[time.Monday].Day())
	assert.Equal(t, 31, block[time.Friday].Day())
	assert.Equal(t, time.November, block[time.Saturday].Month())
	assert.Equal(t, 1, block[time.Saturday].Day())
	for day, date := range block {
		assert.Equal(t, day, date.Weekday())
		assert.True(t, date.After(anchor), "block date %s must be future", date)
	}
}

func TestPolicyIsClosed(t *testing.T) {
	policy := DefaultPolicy()
	sunday := time.Date(2025, time.October, 26, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, time.October, 25, 0, 0, 0, 0, time.UTC)
	assert.True(t, policy.IsClosed(sunday))
	assert.False(t, policy.IsClosed(saturday))
	assert.False(t, policy.IsClosed(anchor))
}

func TestPolicyInBusinessHours(t *testing.T) {
	policy := DefaultPolicy()
	tests := []struct {
		name   string
		day    time.Weekday
		hour   int
		minute int
		want   bool
	}{
		{"weekday opening minute", time.Monday, 8, 0, true},
		{"weekday before opening", time.Monday, 7, 59, false},
		{"weekday last minute", time.Friday, 17, 59, true},
		{"weekday closing time excluded", time.Friday, 18, 0, false},
		{"saturday mid-morning", time.Saturday, 10, 30, true},
		{"saturday 4:30pm out of range", time.Saturday, 16, 30, false},
		{"saturday closing time excluded", time.Saturday, 14, 0, false},
		{"sunday always closed", time.Sunday, 10, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.InBusinessHours(tt.day, tt.hour, tt.minute))
		})
	}
}

func TestPolicyHoursSentence(t *testing.T) {
	got := DefaultPolicy().HoursSentence()
	assert.Equal(t, "We're open Monday-Friday from 8:00 AM to 6:00 PM, and Saturday from 9:00 AM to 2:00 PM.", got)
}

func TestFormatLong(t *testing.T) {
	date := time.Date(2025, time.November, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Tuesday, November 04, 2025", FormatLong(date))
}

func TestParseWeekday(t *testing.T) {
	day, ok := ParseWeekday("saturday")
	require.True(t, ok)
	assert.Equal(t, time.Saturday, day)

	_, ok = ParseWeekday("caturday")
	assert.False(t, ok)
}

func TestExtractDate(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantMonth time.Month
		wantDay   int
		wantYear  int
		wantOK    bool
	}{
		{"month first with ordinal", "can I come in on December 14th?", time.December, 14, 2025, true},
		{"day first lowercase", "how about 14th december", time.December, 14, 2025, true},
		{"with explicit year", "book me for October 25, 2026", time.October, 25, 2026, true},
		{"day of month form", "the 3rd of November works", time.November, 3, 2025, true},
		{"time is not a date", "tomorrow at 4:30 PM", 0, 0, 0, false},
		{"impossible day rejected", "February 30 please", 0, 0, 0, false},
		{"no date at all", "I need a cleaning", 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, matched, ok := ExtractDate(tt.text, anchor)
			require.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantMonth, date.Month())
			assert.Equal(t, tt.wantDay, date.Day())
			assert.Equal(t, tt.wantYear, date.Year())
			assert.NotEmpty(t, matched)
		})
	}
}

func TestExtractDateSpecScenario(t *testing.T) {
	// October 25, 2025 is a Saturday.
	date, _, ok := ExtractDate("I'd like October 25", anchor)
	require.True(t, ok)
	assert.Equal(t, time.Saturday, date.Weekday())
}
