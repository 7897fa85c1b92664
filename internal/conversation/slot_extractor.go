package conversation

import (
	"regexp"
	"strings"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
)

// AppointmentSlots holds the structured booking fields recovered from a
// conversation. Every field is optional and, once filled, immutable for the
// rest of the extraction pass: the patient should never have to repeat
// information, so an early answer always beats a later, noisier match.
type AppointmentSlots struct {
	Name   string
	Reason string
	Date   string
	Time   string
	Phone  string
}

var (
	slotDateDayFirstRe   = regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s*\d{0,4}`)
	slotDateMonthFirstRe = regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2}(?:st|nd|rd|th)?(?:,?\s*\d{4})?`)
	slotTimeRe           = regexp.MustCompile(`(?i)\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
	slotPhoneRe          = regexp.MustCompile(`\b(?:\d{10}|\d{3}[-.]?\d{3}[-.]?\d{4})\b`)
	digitRe              = regexp.MustCompile(`\d`)
	timeNoMinutesRe      = regexp.MustCompile(`(?i)(\d{1,2})\s*(AM|PM)`)
	timeWithMinutesRe    = regexp.MustCompile(`(?i)(\d{1,2}:\d{2})\s*(AM|PM)`)
)

// nameStopWords are terms that disqualify a short message from being read as
// the patient's name.
var nameStopWords = []string{
	"appointment", "schedule", "book", "checkup", "cleaning", "pain",
	"emergency", "monday", "tuesday", "wednesday", "thursday", "friday",
	"saturday", "sunday", "tomorrow", "phone", "contact", "am", "pm", ":",
}

// reasonLabels maps visit keywords to their canonical labels, checked in
// order so "pain" wins over an incidental "emergency" later in the message.
var reasonLabels = []struct {
	keyword string
	label   string
}{
	{"checkup", "Checkup"},
	{"cleaning", "Cleaning"},
	{"pain", "Pain"},
	{"emergency", "Emergency"},
}

// availabilityMarkers identify assistant-style availability listings that
// leak into user turns (e.g. quoted back); times inside them are offers, not
// choices.
var availabilityMarkers = []string{"availability at", "prefer for your appointment"}

// slotRule matches one appointment field in a single user message. Rules are
// independent so new phrasings can be added without touching extraction
// control flow.
type slotRule struct {
	name   string
	filled func(s *AppointmentSlots) bool
	match  func(msg string) (string, bool)
	assign func(s *AppointmentSlots, v string)
}

var slotRules = []slotRule{
	{
		name:   "patient_name",
		filled: func(s *AppointmentSlots) bool { return s.Name != "" },
		match:  matchName,
		assign: func(s *AppointmentSlots, v string) { s.Name = v },
	},
	{
		name:   "visit_reason",
		filled: func(s *AppointmentSlots) bool { return s.Reason != "" },
		match:  matchReason,
		assign: func(s *AppointmentSlots, v string) { s.Reason = v },
	},
	{
		name:   "visit_date",
		filled: func(s *AppointmentSlots) bool { return s.Date != "" },
		match:  matchDate,
		assign: func(s *AppointmentSlots, v string) { s.Date = v },
	},
	{
		name:   "visit_time",
		filled: func(s *AppointmentSlots) bool { return s.Time != "" },
		match:  matchTime,
		assign: func(s *AppointmentSlots, v string) { s.Time = v },
	},
	{
		name:   "contact_phone",
		filled: func(s *AppointmentSlots) bool { return s.Phone != "" },
		match:  matchPhone,
		assign: func(s *AppointmentSlots, v string) { s.Phone = v },
	},
}

// ExtractSlots scans the user side of the conversation for appointment
// fields. Only user turns are considered; the assistant's own availability
// lists must never be read back as answers. The live user message, not yet
// recorded in the session, is scanned last so history keeps priority.
func ExtractSlots(history []session.Turn, currentUserMsg string) AppointmentSlots {
	var slots AppointmentSlots

	apply := func(msg string) {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			return
		}
		for _, rule := range slotRules {
			if rule.filled(&slots) {
				continue
			}
			if v, ok := rule.match(msg); ok {
				rule.assign(&slots, v)
			}
		}
	}

	for _, turn := range history {
		apply(turn.User)
	}
	apply(currentUserMsg)

	return slots
}

func matchName(msg string) (string, bool) {
	words := strings.Fields(msg)
	if len(words) == 0 || len(words) > 4 {
		return "", false
	}
	lower := strings.ToLower(msg)
	for _, stop := range nameStopWords {
		if strings.Contains(lower, stop) {
			return "", false
		}
	}
	if digitRe.MatchString(msg) {
		return "", false
	}
	return titleCase(msg), true
}

func matchReason(msg string) (string, bool) {
	lower := strings.ToLower(msg)
	for _, r := range reasonLabels {
		if strings.Contains(lower, r.keyword) {
			return r.label, true
		}
	}
	return "", false
}

func matchDate(msg string) (string, bool) {
	if m := slotDateDayFirstRe.FindString(msg); m != "" {
		return strings.TrimSpace(m), true
	}
	if m := slotDateMonthFirstRe.FindString(msg); m != "" {
		return strings.TrimSpace(m), true
	}
	return "", false
}

func matchTime(msg string) (string, bool) {
	lower := strings.ToLower(msg)
	for _, marker := range availabilityMarkers {
		if strings.Contains(lower, marker) {
			return "", false
		}
	}
	if m := slotTimeRe.FindString(msg); m != "" {
		return NormalizeTime(m), true
	}
	return "", false
}

func matchPhone(msg string) (string, bool) {
	if m := slotPhoneRe.FindString(msg); m != "" {
		return m, true
	}
	return "", false
}

// NormalizeTime converts "2pm" to "2:00 PM" and "2:30pm" to "2:30 PM".
func NormalizeTime(t string) string {
	upper := strings.ToUpper(strings.TrimSpace(t))
	if strings.Contains(upper, ":") {
		return timeWithMinutesRe.ReplaceAllString(upper, "$1 $2")
	}
	return timeNoMinutesRe.ReplaceAllString(upper, "$1:00 $2")
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
