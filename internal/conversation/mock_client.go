package conversation

import (
	"context"
	"strings"
)

// MockLLMClient is a deterministic stub provider for demos and tests. It
// answers from a fixed set of keyword-matched dental responses and needs no
// API key.
type MockLLMClient struct{}

// NewMockLLMClient creates the stub provider.
func NewMockLLMClient() *MockLLMClient {
	return &MockLLMClient{}
}

// Complete returns a canned response keyed off the last user message.
func (c *MockLLMClient) Complete(_ context.Context, req LLMRequest) (LLMResponse, error) {
	var last string
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == ChatRoleUser {
			last = req.Messages[i].Content
			break
		}
	}
	return LLMResponse{Text: mockResponse(last), StopReason: "end_turn"}, nil
}

func mockResponse(message string) string {
	lower := strings.ToLower(message)

	containsAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(lower, w) {
				return true
			}
		}
		return false
	}

	switch {
	case containsAny("appointment", "schedule", "book", "reservation"):
		return "I'd be happy to help you schedule an appointment!\n\n" +
			"Could you please provide me with the following information:\n" +
			"- Your preferred date and time\n" +
			"- The reason for your visit (checkup, cleaning, specific concern)\n" +
			"- Your contact phone number\n\n" +
			"We're open Monday-Friday 8:00 AM - 6:00 PM, and Saturdays 9:00 AM - 2:00 PM."
	case containsAny("service", "offer", "do you", "what can"):
		return "We offer a comprehensive range of dental services including:\n\n" +
			"- General Dentistry (checkups, cleanings, fillings)\n" +
			"- Cosmetic Dentistry (whitening, veneers, bonding)\n" +
			"- Orthodontics (braces, Invisalign)\n" +
			"- Oral Surgery (extractions, wisdom teeth)\n" +
			"- Periodontics (gum disease treatment)\n" +
			"- Endodontics (root canals)\n" +
			"- Emergency Dental Care\n\n" +
			"Which service are you interested in learning more about?"
	case containsAny("hours", "open", "closed"):
		return "Our office hours are:\n\n" +
			"Monday - Friday: 8:00 AM - 6:00 PM\n" +
			"Saturday: 9:00 AM - 2:00 PM\n" +
			"Sunday: Closed\n\n" +
			"We also have a 24/7 emergency line for urgent dental needs. " +
			"Would you like to schedule an appointment?"
	case containsAny("pain", "hurt", "emergency", "urgent", "toothache", "tooth ache"):
		return "I'm sorry to hear you're experiencing discomfort!\n\n" +
			"For dental pain or emergencies, I recommend:\n" +
			"1. Call our emergency line immediately: (555) 123-4567\n" +
			"2. We have same-day emergency appointments available\n" +
			"3. In the meantime, you can rinse with warm salt water and take over-the-counter pain medication\n\n" +
			"Would you like me to schedule an emergency appointment for you?"
	case containsAny("hi", "hello", "hey", "good morning", "good afternoon", "good evening"):
		return "Hello! Welcome to our dental practice!\n\n" +
			"I'm here to help you with:\n" +
			"- Scheduling appointments\n" +
			"- Information about our services\n" +
			"- Answering general dental questions\n" +
			"- Office hours and location\n\n" +
			"How can I assist you today?"
	case containsAny("cost", "price", "insurance", "payment", "afford", "expensive"):
		return "We accept most major insurance plans and offer flexible payment options. " +
			"Specific costs vary based on the treatment needed.\n\n" +
			"For an accurate quote, I recommend scheduling a consultation where we can " +
			"assess your needs, verify your insurance coverage, and provide a detailed " +
			"treatment plan with costs. Would you like to schedule a consultation?"
	case strings.Contains(lower, "clean"):
		return "Professional teeth cleanings are essential for oral health!\n\n" +
			"Our dental cleanings include plaque and tartar removal, polishing, " +
			"fluoride treatment, and an oral health assessment.\n\n" +
			"We recommend cleanings every 6 months. " +
			"Would you like to schedule a cleaning appointment?"
	default:
		return "Thank you for your question! I'm here to help with information about " +
			"our dental services, scheduling appointments, and general dental care questions.\n\n" +
			"Could you please provide a bit more detail about what you'd like to know?"
	}
}
