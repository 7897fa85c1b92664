package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
)

const transcriptTTL = 24 * time.Hour

// TranscriptStore mirrors completed turns into Redis for operator audit.
// Sessions never read from it; losing Redis loses only the audit copy.
type TranscriptStore struct {
	redis  *redis.Client
	tracer trace.Tracer
}

func NewTranscriptStore(client *redis.Client, tracer trace.Tracer) *TranscriptStore {
	if client == nil {
		panic("conversation: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("dentalbot.internal.conversation.transcripts")
	}
	return &TranscriptStore{
		redis:  client,
		tracer: tracer,
	}
}

// Append pushes one turn onto the session's transcript list and refreshes
// its TTL.
func (s *TranscriptStore) Append(ctx context.Context, sessionID string, turn session.Turn) error {
	ctx, span := s.tracer.Start(ctx, "conversation.append_transcript")
	defer span.End()

	data, err := json.Marshal(turn)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to marshal turn: %w", err)
	}
	key := transcriptKey(sessionID)
	if err := s.redis.RPush(ctx, key, data).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to persist turn: %w", err)
	}
	if err := s.redis.Expire(ctx, key, transcriptTTL).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("conversation: failed to refresh transcript ttl: %w", err)
	}
	return nil
}

// Load returns a session's full transcript, oldest turn first.
func (s *TranscriptStore) Load(ctx context.Context, sessionID string) ([]session.Turn, error) {
	ctx, span := s.tracer.Start(ctx, "conversation.load_transcript")
	defer span.End()

	raw, err := s.redis.LRange(ctx, transcriptKey(sessionID), 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("conversation: failed to load transcript: %w", err)
	}

	turns := make([]session.Turn, 0, len(raw))
	for _, item := range raw {
		var turn session.Turn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("conversation: failed to decode turn: %w", err)
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

func transcriptKey(id string) string {
	return fmt.Sprintf("transcript:%s", id)
}
