package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RamithaMN/Dental-appointment-Chatbot/pkg/logging"
)

// ErrNotFound is returned when a session does not exist or has expired.
// Callers surface it as the "session expired, start over" condition.
var ErrNotFound = errors.New("session: not found or expired")

// Store maps session ids to live sessions. Expired entries are evicted
// lazily on access and in batch by Sweep.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	timeout  time.Duration
	maxTurns int
	now      func() time.Time
	logger   *logging.Logger
}

// NewStore creates a session store with the given idle timeout and history
// bound.
func NewStore(timeout time.Duration, maxTurns int, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	return &Store{
		sessions: make(map[string]*Session),
		timeout:  timeout,
		maxTurns: maxTurns,
		now:      time.Now,
		logger:   logger,
	}
}

// Create registers a new session for the user and returns it.
func (st *Store) Create(userID string) *Session {
	id := uuid.New().String()
	sess := newSession(id, userID, st.now(), st.maxTurns)

	st.mu.Lock()
	st.sessions[id] = sess
	st.mu.Unlock()

	st.logger.Info("session created", "session_id", id, "user_id", userID)
	return sess
}

// Get returns a live session. An expired session is evicted as a side
// effect and ErrNotFound is returned.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	sess, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	if sess.Expired(st.now(), st.timeout) {
		st.logger.Info("session expired, evicting", "session_id", id)
		st.End(id)
		return nil, ErrNotFound
	}
	return sess, nil
}

// End removes a session unconditionally. Ending an unknown session is a
// no-op.
func (st *Store) End(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Sweep removes every expired session and returns how many were dropped.
// Safe to call concurrently with request handling.
func (st *Store) Sweep() int {
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, sess := range st.sessions {
		if sess.Expired(now, st.timeout) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		st.logger.Info("swept expired sessions", "removed", removed)
	}
	return removed
}

// RecordTurn appends a completed exchange to the session.
func (st *Store) RecordTurn(sess *Session, user, assistant string) {
	sess.Record(user, assistant, st.now())
}

// Timeout returns the idle window after which a session expires.
func (st *Store) Timeout() time.Duration {
	return st.timeout
}

// Len returns the number of sessions currently held, expired or not.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
