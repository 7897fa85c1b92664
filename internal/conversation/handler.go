package conversation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
	"github.com/RamithaMN/Dental-appointment-Chatbot/pkg/logging"
)

const maxMessageLength = 2000

// ChatRequest is the body of POST /api/chat. SessionID is optional; when
// absent a new session is created for the user.
type ChatRequest struct {
	Message   string         `json:"message"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id"`
	Context   map[string]any `json:"context,omitempty"`
}

type ChatResponse struct {
	Response     string    `json:"response"`
	SessionID    string    `json:"session_id"`
	Timestamp    time.Time `json:"timestamp"`
	MessageCount int       `json:"message_count"`
}

type SessionCreateRequest struct {
	UserID string `json:"user_id"`
}

type SessionCreateResponse struct {
	SessionID string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionInfoResponse struct {
	session.Info
	IsExpired bool `json:"is_expired"`
}

type HealthCheckResponse struct {
	Status         string    `json:"status"`
	LLMProvider    string    `json:"llm_provider"`
	LLMAvailable   bool      `json:"llm_available"`
	ActiveSessions int       `json:"active_sessions"`
	Timestamp      time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Detail    string    `json:"detail"`
	ErrorCode string    `json:"error_code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler wires HTTP requests to the chat service and session store.
type Handler struct {
	service  *Service
	store    *session.Store
	provider string
	logger   *logging.Logger
}

func NewHandler(service *Service, store *session.Store, provider string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service:  service,
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// Root handles GET /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"service": "Dental Chatbot Microservice",
		"version": "1.0.0",
		"status":  "online",
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthCheckResponse{
		Status:         "healthy",
		LLMProvider:    h.provider,
		LLMAvailable:   h.service != nil,
		ActiveSessions: h.store.Len(),
		Timestamp:      time.Now(),
	})
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	sess := h.store.Create(req.UserID)
	info := sess.Snapshot()
	h.writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: info.SessionID,
		CreatedAt: info.CreatedAt,
	})
}

// GetSession handles GET /api/sessions/{session_id}. Get evicts expired
// sessions, so is_expired is false for any session that reaches the response;
// it is computed anyway so the contract survives a future lookup that stops
// evicting.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}
	h.writeJSON(w, http.StatusOK, SessionInfoResponse{
		Info:      sess.Snapshot(),
		IsExpired: sess.Expired(time.Now(), h.store.Timeout()),
	})
}

// DeleteSession handles DELETE /api/sessions/{session_id}. Ending an already
// absent session is not an error.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	h.store.End(chi.URLParam(r, "session_id"))
	w.WriteHeader(http.StatusNoContent)
}

// ClearSession handles POST /api/sessions/{session_id}/clear.
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.Get(chi.URLParam(r, "session_id"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}
	sess.Clear(time.Now())
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Session history cleared"})
}

// Chat handles POST /api/chat. Provider failures still answer 200 with the
// apology text so the widget renders a normal reply.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		h.writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if len(req.Message) == 0 || len(req.Message) > maxMessageLength {
		h.writeError(w, http.StatusBadRequest, "message must be between 1 and 2000 characters")
		return
	}

	var sess *session.Session
	if req.SessionID != "" {
		var err error
		sess, err = h.store.Get(req.SessionID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				h.writeError(w, http.StatusNotFound, "Session not found or expired. Please create a new session.")
				return
			}
			h.writeError(w, http.StatusInternalServerError, "Failed to process chat message. Please try again.")
			return
		}
	} else {
		sess = h.store.Create(req.UserID)
	}

	reply, err := h.service.Chat(r.Context(), sess, req.Message)
	if err != nil {
		h.logger.Error("chat turn failed", "session_id", sess.ID(), "error", err)
	}

	h.writeJSON(w, http.StatusOK, ChatResponse{
		Response:     reply,
		SessionID:    sess.ID(),
		Timestamp:    time.Now(),
		MessageCount: sess.MessageCount(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, detail string) {
	h.writeJSON(w, status, ErrorResponse{
		Detail:    detail,
		ErrorCode: strconv.Itoa(status),
		Timestamp: time.Now(),
	})
}
