package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/calendar"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/conversation"
)

// Manual smoke test for the configured LLM provider. Sends a short booking
// conversation and prints the raw draft next to the date-corrected reply.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prompts := conversation.NewPromptBuilder(os.Getenv("CHATBOT_NAME"), os.Getenv("CHATBOT_ROLE"))
	anchor := time.Now()

	req := conversation.LLMRequest{
		System: []string{prompts.SystemPrompt(anchor)},
		Messages: []conversation.ChatMessage{
			{Role: conversation.ChatRoleUser, Content: "Hi, I'd like to book a checkup."},
			{Role: conversation.ChatRoleAssistant, Content: "Happy to help! What day works best for you?"},
			{Role: conversation.ChatRoleUser, Content: "Do you have anything this Friday?"},
		},
		MaxTokens:   300,
		Temperature: 0.7,
	}

	divider := strings.Repeat("=", 60)
	fmt.Println(divider)
	fmt.Println("LLM Provider Test")
	fmt.Println(divider)

	var client conversation.LLMClient
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		fmt.Println("\nUsing Gemini")
		gemini, err := conversation.NewGeminiLLMClient(ctx, key, "gemini-2.5-flash")
		if err != nil {
			log.Fatalf("failed to create Gemini client: %v", err)
		}
		client = gemini
	} else {
		fmt.Println("\nGEMINI_API_KEY not set, using the mock provider")
		client = conversation.NewMockLLMClient()
	}

	start := time.Now()
	resp, err := client.Complete(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("provider error: %v", err)
	}

	fmt.Printf("\nDraft reply (%v):\n%s\n", elapsed.Round(time.Millisecond), resp.Text)
	fmt.Printf("Tokens: in=%d, out=%d\n", resp.Usage.InputTokens, resp.Usage.OutputTokens)

	rewriter := conversation.NewRewriter(calendar.DefaultPolicy(), nil, nil)
	fixed := rewriter.Rewrite(resp.Text, "Do you have anything this Friday?", nil, anchor)

	fmt.Println(divider)
	if fixed == resp.Text {
		fmt.Println("Rewriter made no changes")
	} else {
		fmt.Printf("Corrected reply:\n%s\n", fixed)
	}
}
