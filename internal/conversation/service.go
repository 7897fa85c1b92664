package conversation

import (
	"context"
	"time"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/observability/metrics"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
	"github.com/RamithaMN/Dental-appointment-Chatbot/pkg/logging"
)

// apologyMessage is returned verbatim when the provider call fails. The
// transport still answers 200 so the widget renders it as a normal reply.
const apologyMessage = "I apologize, but I'm having trouble processing your request right now. " +
	"Please try again, or if this continues, feel free to call our office directly. " +
	"Is there anything else I can help you with?"

// TranscriptSink receives a best-effort copy of each completed turn for
// operator audit. Failures are logged and never affect the chat path.
type TranscriptSink interface {
	Append(ctx context.Context, sessionID string, turn session.Turn) error
}

// ServiceConfig wires the chat service dependencies. Transcripts, Metrics
// and Now are optional.
type ServiceConfig struct {
	LLM          LLMClient
	ProviderName string
	Model        string
	MaxTokens    int32
	Temperature  float32
	Store        *session.Store
	Rewriter     *Rewriter
	Prompts      *PromptBuilder
	Transcripts  TranscriptSink
	Logger       *logging.Logger
	Metrics      *metrics.ChatMetrics
	Now          func() time.Time
}

// Service runs one chat turn end to end: prompt assembly, provider
// completion, deterministic rewrite, then history recording. The provider
// call is the only blocking step.
type Service struct {
	llm         LLMClient
	provider    string
	model       string
	maxTokens   int32
	temperature float32
	store       *session.Store
	rewriter    *Rewriter
	prompts     *PromptBuilder
	transcripts TranscriptSink
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
	now         func() time.Time
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		llm:         cfg.LLM,
		provider:    cfg.ProviderName,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		store:       cfg.Store,
		rewriter:    cfg.Rewriter,
		prompts:     cfg.Prompts,
		transcripts: cfg.Transcripts,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		now:         cfg.Now,
	}
}

// Chat produces the assistant's reply for one user message. On provider
// failure the apology text is returned alongside the error; the turn is not
// recorded and the draft is never rewritten. On success the rewritten reply
// has already been appended to the session before Chat returns.
func (s *Service) Chat(ctx context.Context, sess *session.Session, userInput string) (string, error) {
	anchor := s.now()
	history := sess.History()

	req := LLMRequest{
		Model:       s.model,
		System:      []string{s.prompts.SystemPrompt(anchor)},
		Messages:    s.prompts.Messages(history, userInput),
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	}

	start := time.Now()
	resp, err := s.llm.Complete(ctx, req)
	s.metrics.ObserveProviderLatency(s.provider, time.Since(start).Seconds())
	if err != nil {
		s.logger.Error("provider completion failed", "provider", s.provider, "session_id", sess.ID(), "error", err)
		s.metrics.ObserveChat("provider_error")
		return apologyMessage, err
	}

	reply := s.rewriter.Rewrite(resp.Text, userInput, history, anchor)
	s.store.RecordTurn(sess, userInput, reply)

	if s.transcripts != nil {
		turn := session.Turn{User: userInput, Assistant: reply, At: anchor}
		if terr := s.transcripts.Append(ctx, sess.ID(), turn); terr != nil {
			s.logger.Warn("transcript append failed", "session_id", sess.ID(), "error", terr)
		}
	}

	s.metrics.ObserveChat("ok")
	s.metrics.SetActiveSessions(s.store.Len())
	return reply, nil
}
