package conversation

import (
	"regexp"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/calendar"
)

const weekdayAlternation = `Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday`

// Rule names reported to logs and metrics when a rewrite stage changes the
// draft response.
const (
	rulePlaceholderDate = "placeholder_date"
	ruleVaguePhrase     = "vague_phrase"
	ruleBareWeekday     = "bare_weekday"
	ruleTomorrow        = "tomorrow_annotation"
	ruleUserDateRepair  = "user_date_repair"
	ruleClosedDay       = "closed_day"
	ruleOutOfHours      = "out_of_hours"
	ruleSummaryAppended = "summary_appended"
)

var (
	// Bracketed placeholders the model emits when it refuses to commit to a
	// date, e.g. "[insert date]" or "[DATE]".
	placeholderDateRe = regexp.MustCompile(`(?i)\[[^\[\]]*date[^\[\]]*\]`)

	// Vague day references. Longer alternatives come first so "this
	// upcoming Friday" is consumed whole rather than as "this" + leftovers.
	vaguePhraseRe = regexp.MustCompile(`(?i)\b(?:this\s+upcoming|this\s+coming|the\s+following|this|next|upcoming)\s+(` + weekdayAlternation + `)\b`)

	// A weekday name with an optional trailing calendar date. When the date
	// group matches, the weekday is already stamped and must stay untouched.
	bareWeekdayRe = regexp.MustCompile(`(?i)\b(` + weekdayAlternation + `)\b(,?\s+` + calendar.MonthNamePattern + `\s+\d{1,2}(?:,\s*\d{4})?)?`)

	// Weekday ranges such as "Monday-Friday" or "Monday through Saturday".
	// Both endpoints describe opening hours, not a proposed visit day.
	weekdayRangeRe = regexp.MustCompile(`(?i)\b(` + weekdayAlternation + `)\s*(?:[-\x{2013}\x{2014}]|through|to)\s*(` + weekdayAlternation + `)\b`)

	// Text directly after a weekday that continues into opening-hours prose,
	// e.g. "Saturday from 9:00 AM" or "Saturday: 9:00 AM". Such a weekday
	// labels the clinic's hours and must not be rewritten to a visit date.
	hoursProseRe = regexp.MustCompile(`(?i)^\s*(?:from\s+|:\s*)\d{1,2}(?::\d{2})?\s*(?:AM|PM)`)

	tomorrowRe = regexp.MustCompile(`(?i)\btomorrow\b`)

	// A weekday immediately followed by a calendar date, captured in parts
	// so the weekday word can be repaired independently of the date.
	dayDatePairRe = regexp.MustCompile(`(?i)\b(` + weekdayAlternation + `)(,?\s+)(` + calendar.MonthNamePattern + `\s+\d{1,2}(?:,\s*\d{4})?)`)

	clockTimeRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(AM|PM)\b`)

	monthShiftRe = regexp.MustCompile(`(?i)\b(?:next|following|upcoming)\s+month\b`)

	bookingTriggerRe = regexp.MustCompile(`(?i)\b(?:scheduled|booked|appointment)\s+for\b`)

	// bookingDetailRes recognize concrete appointment details in a user
	// message: full name, phone number, clock time, or an explicit date.
	bookingDetailRes = []*regexp.Regexp{
		regexp.MustCompile(`\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
		regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`),
		regexp.MustCompile(`\b\d{10}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:AM|PM)\b`),
		regexp.MustCompile(`(?i)\b` + calendar.MonthNamePattern + `\s+\d{1,2}(?:st|nd|rd|th)?(?:,\s*\d{4})?\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+` + calendar.MonthNamePattern + `\b`),
	}
)

// hoursOnlyIndicators mark an exchange as an opening-hours question. A
// response that only recites hours must keep its weekday names unstamped.
var hoursOnlyIndicators = []string{
	"business hours",
	"office hours",
	"clinic hours",
	"open hours",
	"what are your hours",
	"when are you open",
	"operating hours",
	"hours",
}

// schedulingIndicators mark an exchange as active appointment booking, which
// flips weekday stamping from next-occurrence to next-week dates.
var schedulingIndicators = []string{
	"schedule an appointment",
	"book an appointment",
	"appointment for",
	"when would you like to come in",
	"preferred date",
	"appointment on",
}

// summaryMarkers indicate a summary block is already present in the draft.
var summaryMarkers = []string{
	"appointment summary:",
	"**patient name:**",
	"**date & time:**",
	"**appointment type:**",
}

// cancellationWords suppress summary synthesis: the exchange is about
// undoing or moving a booking, not completing one.
var cancellationWords = []string{
	"cancel",
	"cancelled",
	"cancellation",
	"change",
	"reschedule",
	"modify",
	"update",
	"different time",
	"different date",
}

// confirmationWords in the assistant's reply signal a completed booking.
var confirmationWords = []string{"confirmed", "scheduled", "booked", "finalized"}

// bareConfirmations are user turns that merely acknowledge; they carry no
// new details and must not trigger a fresh summary.
var bareConfirmations = []string{"confirm", "yes", "ok", "okay", "yes please", "yes, please"}
