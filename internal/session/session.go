// Package session holds per-patient conversation state: the bounded turn
// history and the TTL-expired store that owns it. All state is process-local;
// nothing here survives a restart.
package session

import (
	"sync"
	"time"
)

// Turn is one user message paired with the assistant reply it produced.
type Turn struct {
	User      string    `json:"user"`
	Assistant string    `json:"assistant"`
	At        time.Time `json:"at"`
}

// Session is one patient's conversation. All methods are safe for concurrent
// use.
type Session struct {
	mu           sync.Mutex
	id           string
	userID       string
	createdAt    time.Time
	lastActivity time.Time
	messageCount int
	maxTurns     int
	turns        []Turn
}

func newSession(id, userID string, now time.Time, maxTurns int) *Session {
	return &Session{
		id:           id,
		userID:       userID,
		createdAt:    now,
		lastActivity: now,
		maxTurns:     maxTurns,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// UserID returns the owning user's identifier.
func (s *Session) UserID() string { return s.userID }

// Record appends a completed exchange, bumps the message counter and
// refreshes last activity. When the history bound is exceeded the oldest
// pair is dropped first.
func (s *Session) Record(user, assistant string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{User: user, Assistant: assistant, At: now})
	if s.maxTurns > 0 && len(s.turns) > s.maxTurns {
		s.turns = s.turns[len(s.turns)-s.maxTurns:]
	}
	s.messageCount++
	s.touch(now)
}

// History returns a copy of the recorded turns, oldest first.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Clear drops the turn history but keeps the session alive.
func (s *Session) Clear(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = nil
	s.touch(now)
}

// MessageCount returns the number of exchanges recorded over the session's
// lifetime, including any evicted from the bounded history.
func (s *Session) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.messageCount
}

// Expired reports whether the session has been idle past the timeout.
func (s *Session) Expired(now time.Time, timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastActivity) > timeout
}

// touch advances last activity. Caller holds the lock. Last activity never
// moves backwards even if the caller's clock does.
func (s *Session) touch(now time.Time) {
	if now.After(s.lastActivity) {
		s.lastActivity = now
	}
}

// Info is a read-only snapshot for the session info endpoint.
type Info struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

// Snapshot returns the session's current metadata.
func (s *Session) Snapshot() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		SessionID:    s.id,
		UserID:       s.userID,
		CreatedAt:    s.createdAt,
		LastActivity: s.lastActivity,
		MessageCount: s.messageCount,
	}
}
