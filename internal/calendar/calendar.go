// Package calendar provides the deterministic date arithmetic and clinic
// policy checks used to correct model-generated scheduling text.
package calendar

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// LongDateLayout renders dates the way they must appear in patient-facing
// text, e.g. "Tuesday, November 04, 2025".
const LongDateLayout = "Monday, January 02, 2006"

// Policy captures the clinic's opening hours. Sunday is always closed.
type Policy struct {
	WeekdayOpenHour   int
	WeekdayCloseHour  int
	SaturdayOpenHour  int
	SaturdayCloseHour int
}

// DefaultPolicy returns the standard clinic hours: Mon-Fri 8AM-6PM,
// Saturday 9AM-2PM.
func DefaultPolicy() Policy {
	return Policy{
		WeekdayOpenHour:   8,
		WeekdayCloseHour:  18,
		SaturdayOpenHour:  9,
		SaturdayCloseHour: 14,
	}
}

// IsClosed reports whether the clinic is closed on the given date.
func (p Policy) IsClosed(date time.Time) bool {
	return date.Weekday() == time.Sunday
}

// InBusinessHours reports whether a wall-clock time on the given weekday
// falls inside opening hours. Closing time is exclusive.
func (p Policy) InBusinessHours(day time.Weekday, hour, minute int) bool {
	t := hour*60 + minute
	switch day {
	case time.Sunday:
		return false
	case time.Saturday:
		return t >= p.SaturdayOpenHour*60 && t < p.SaturdayCloseHour*60
	default:
		return t >= p.WeekdayOpenHour*60 && t < p.WeekdayCloseHour*60
	}
}

// HoursSentence renders the opening hours for use in fixed policy messages.
func (p Policy) HoursSentence() string {
	return "We're open Monday-Friday from " + clockLabel(p.WeekdayOpenHour) + " to " + clockLabel(p.WeekdayCloseHour) +
		", and Saturday from " + clockLabel(p.SaturdayOpenHour) + " to " + clockLabel(p.SaturdayCloseHour) + "."
}

func clockLabel(hour int) string {
	suffix := "AM"
	h := hour
	if hour >= 12 {
		suffix = "PM"
		if hour > 12 {
			h = hour - 12
		}
	}
	return strconv.Itoa(h) + ":00 " + suffix
}

// NextOccurrence returns the nearest future occurrence of the weekday
// strictly after the anchor. If the anchor already falls on that weekday the
// result is a full week ahead; bookings are always for a future day.
func NextOccurrence(anchor time.Time, day time.Weekday) time.Time {
	distance := (int(day) - int(anchor.Weekday()) + 7) % 7
	if distance == 0 {
		distance = 7
	}
	return anchor.AddDate(0, 0, distance)
}

// Tomorrow returns the calendar day after the anchor.
func Tomorrow(anchor time.Time) time.Time {
	return anchor.AddDate(0, 0, 1)
}

// NextWeekBlock returns the dates for Monday through Sunday of the calendar
// week after the anchor. Scheduling responses stamp weekdays with these so a
// proposed day is never in the past.
func NextWeekBlock(anchor time.Time) map[time.Weekday]time.Time {
	monday := NextOccurrence(anchor, time.Monday)
	block := make(map[time.Weekday]time.Time, 7)
	for offset := 0; offset < 7; offset++ {
		date := monday.AddDate(0, 0, offset)
		block[date.Weekday()] = date
	}
	return block
}

// FormatLong renders a date in the patient-facing long form.
func FormatLong(date time.Time) string {
	return date.Format(LongDateLayout)
}

// FormatMonthDate renders a date without the weekday, for messages that
// state the weekday separately.
func FormatMonthDate(date time.Time) string {
	return date.Format("January 02, 2006")
}

// Weekdays lists day names Monday first, matching how patients phrase them.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// ParseWeekday resolves a day name, case-insensitively.
func ParseWeekday(name string) (time.Weekday, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday":
		return time.Monday, true
	case "tuesday":
		return time.Tuesday, true
	case "wednesday":
		return time.Wednesday, true
	case "thursday":
		return time.Thursday, true
	case "friday":
		return time.Friday, true
	case "saturday":
		return time.Saturday, true
	case "sunday":
		return time.Sunday, true
	}
	return time.Sunday, false
}

var monthNumbers = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseMonth resolves a month name or abbreviation.
func ParseMonth(name string) (time.Month, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if len(key) > 3 {
		key = key[:3]
	}
	m, ok := monthNumbers[key]
	return m, ok
}

// MonthNamePattern matches a full month name; shared with the response
// rewriting rules so date detection stays consistent across packages.
const MonthNamePattern = `(?:January|February|March|April|May|June|July|August|September|October|November|December)`

var (
	monthFirstRe = regexp.MustCompile(`(?i)\b(` + MonthNamePattern + `)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s*(\d{4}))?\b`)
	dayFirstRe   = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + MonthNamePattern + `)\b(?:,?\s*(\d{4}))?`)
)

// ExtractDate finds the first explicit month/day expression in free text and
// resolves it to a concrete date. A missing year resolves to the anchor's
// year. The matched substring is returned so callers can locate it in the
// source text. Returns ok=false when no expression is present or the day is
// out of range.
func ExtractDate(text string, anchor time.Time) (date time.Time, matched string, ok bool) {
	if m := monthFirstRe.FindStringSubmatch(text); m != nil {
		return buildDate(m[1], m[2], m[3], anchor, m[0])
	}
	if m := dayFirstRe.FindStringSubmatch(text); m != nil {
		return buildDate(m[2], m[1], m[3], anchor, m[0])
	}
	return time.Time{}, "", false
}

func buildDate(monthName, dayStr, yearStr string, anchor time.Time, matched string) (time.Time, string, bool) {
	month, ok := ParseMonth(monthName)
	if !ok {
		return time.Time{}, "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, "", false
	}
	year := anchor.Year()
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
		}
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, anchor.Location())
	// Reject impossible days like February 30 that time.Date normalizes away.
	if date.Day() != day || date.Month() != month {
		return time.Time{}, "", false
	}
	return date, matched, true
}
