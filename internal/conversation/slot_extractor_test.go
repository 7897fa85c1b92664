package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
)

func turns(userMsgs ...string) []session.Turn {
	out := make([]session.Turn, len(userMsgs))
	for i, m := range userMsgs {
		out[i] = session.Turn{User: m, Assistant: "noted"}
	}
	return out
}

func TestExtractSlotsFullBookingFlow(t *testing.T) {
	history := turns(
		"I want to book an appointment",
		"Rohit",
		"25th October at 10am",
		"checkup",
	)

	slots := ExtractSlots(history, "555-123-4567")

	assert.Equal(t, "Rohit", slots.Name)
	assert.Equal(t, "Checkup", slots.Reason)
	assert.Equal(t, "25th October", slots.Date)
	assert.Equal(t, "10:00 AM", slots.Time)
	assert.Equal(t, "555-123-4567", slots.Phone)
}

func TestExtractSlotsFirstAnswerWins(t *testing.T) {
	history := turns("Rohit", "checkup", "Jordan")

	slots := ExtractSlots(history, "")

	assert.Equal(t, "Rohit", slots.Name, "a later name-like message must not overwrite the answer")
}

func TestExtractSlotsNameRejections(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"booking keyword", "I want to book an appointment"},
		{"weekday", "Monday"},
		{"relative day", "tomorrow"},
		{"contains digits", "Rohit 42"},
		{"too many words", "my name is rohit kumar actually yes"},
		{"time fragment", "4:30 pm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := ExtractSlots(nil, tt.msg)
			assert.Empty(t, slots.Name)
		})
	}
}

func TestExtractSlotsNameTitleCased(t *testing.T) {
	slots := ExtractSlots(nil, "rohit kumar")
	assert.Equal(t, "Rohit Kumar", slots.Name)
}

func TestExtractSlotsDateFormats(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"day first with ordinal", "25th October please", "25th October"},
		{"day first abbreviated", "14 dec works", "14 dec"},
		{"month first", "October 25", "October 25"},
		{"month first with year", "December 14, 2025", "December 14, 2025"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := ExtractSlots(nil, tt.msg)
			assert.Equal(t, tt.want, slots.Date)
		})
	}
}

func TestExtractSlotsTimeSkipsAvailabilityLists(t *testing.T) {
	history := turns("We have availability at 9:00 AM, 10:00 AM and 2:00 PM")
	slots := ExtractSlots(history, "2pm works")
	assert.Equal(t, "2:00 PM", slots.Time)
}

func TestExtractSlotsReasonPriority(t *testing.T) {
	slots := ExtractSlots(nil, "I have terrible pain, might be an emergency")
	assert.Equal(t, "Pain", slots.Reason)
}

func TestExtractSlotsPhoneFormats(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"bare ten digits", "5551234567", "5551234567"},
		{"dashed", "call me at 555-123-4567", "555-123-4567"},
		{"dotted", "555.123.4567", "555.123.4567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := ExtractSlots(nil, tt.msg)
			assert.Equal(t, tt.want, slots.Phone)
		})
	}
}

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2pm", "2:00 PM"},
		{"2:30pm", "2:30 PM"},
		{"10 AM", "10:00 AM"},
		{"4:30 PM", "4:30 PM"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeTime(tt.in), tt.in)
	}
}
