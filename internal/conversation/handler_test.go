package conversation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
	"github.com/RamithaMN/Dental-appointment-Chatbot/pkg/logging"
)

// newTestServer mounts the handler the same way the API router does so
// chi.URLParam resolves path parameters.
func newTestServer(t *testing.T, llm LLMClient) (*httptest.Server, *session.Store) {
	t.Helper()

	store := session.NewStore(30*time.Minute, 10, logging.Default())
	svc := newTestService(llm, store, nil)
	h := NewHandler(svc, store, "stub", logging.Default())

	r := chi.NewRouter()
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", h.Chat)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.CreateSession)
			r.Route("/{session_id}", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Delete("/", h.DeleteSession)
				r.Post("/clear", h.ClearSession)
			})
		})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestRootEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{text: "hi"})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "Dental Chatbot Microservice", body["service"])
}

func TestHealthEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &stubLLM{text: "hi"})
	store.Create("user-1")

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[HealthCheckResponse](t, resp)
	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "stub", body.LLMProvider)
	assert.True(t, body.LLMAvailable)
	assert.Equal(t, 1, body.ActiveSessions)
}

func TestCreateSessionEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &stubLLM{text: "hi"})

	resp := postJSON(t, srv.URL+"/api/sessions/", SessionCreateRequest{UserID: "user-1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody[SessionCreateResponse](t, resp)
	assert.NotEmpty(t, body.SessionID)

	sess, err := store.Get(body.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sess.UserID())
}

func TestCreateSessionRequiresUserID(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{text: "hi"})

	resp := postJSON(t, srv.URL+"/api/sessions/", SessionCreateRequest{})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "user_id is required", body.Detail)
	assert.Equal(t, "400", body.ErrorCode)
}

func TestGetSessionEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &stubLLM{text: "hi"})
	sess := store.Create("user-1")

	resp, err := http.Get(srv.URL + "/api/sessions/" + sess.ID() + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[SessionInfoResponse](t, resp)
	assert.Equal(t, sess.ID(), body.SessionID)
	assert.Equal(t, "user-1", body.UserID)
	assert.False(t, body.IsExpired)
}

func TestGetSessionNotFound(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{text: "hi"})

	resp, err := http.Get(srv.URL + "/api/sessions/unknown/")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "Session not found or expired", body.Detail)
}

func TestDeleteSessionEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &stubLLM{text: "hi"})
	sess := store.Create("user-1")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/sessions/"+sess.ID()+"/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Deleting again is still a 204.
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = store.Get(sess.ID())
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestClearSessionEndpoint(t *testing.T) {
	srv, store := newTestServer(t, &stubLLM{text: "hi"})
	sess := store.Create("user-1")
	store.RecordTurn(sess, "hello", "hi there")

	resp := postJSON(t, srv.URL+"/api/sessions/"+sess.ID()+"/clear", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "Session history cleared", body["message"])
	assert.Empty(t, sess.History())
}

func TestChatEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{text: "We could fit you in on Friday. Does that work?"})

	resp := postJSON(t, srv.URL+"/api/chat", ChatRequest{
		Message: "Do you have anything on Friday?",
		UserID:  "user-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[ChatResponse](t, resp)
	assert.Equal(t, "We could fit you in on Friday, October 24, 2025. Does that work?", body.Response)
	assert.NotEmpty(t, body.SessionID)
	assert.Equal(t, 1, body.MessageCount)
}

func TestChatReusesSession(t *testing.T) {
	srv, store := newTestServer(t, &stubLLM{text: "Of course."})
	sess := store.Create("user-1")

	resp := postJSON(t, srv.URL+"/api/chat", ChatRequest{
		Message:   "hello",
		SessionID: sess.ID(),
		UserID:    "user-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[ChatResponse](t, resp)
	assert.Equal(t, sess.ID(), body.SessionID)
	assert.Equal(t, 1, body.MessageCount)
}

func TestChatUnknownSession(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{text: "hi"})

	resp := postJSON(t, srv.URL+"/api/chat", ChatRequest{
		Message:   "hello",
		SessionID: "missing",
		UserID:    "user-1",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decodeBody[ErrorResponse](t, resp)
	assert.Equal(t, "Session not found or expired. Please create a new session.", body.Detail)
}

func TestChatValidation(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{text: "hi"})

	cases := []struct {
		name string
		req  ChatRequest
	}{
		{"missing user id", ChatRequest{Message: "hello"}},
		{"empty message", ChatRequest{UserID: "user-1"}},
		{"oversized message", ChatRequest{UserID: "user-1", Message: strings.Repeat("a", maxMessageLength+1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/chat", tc.req)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestChatProviderErrorStillAnswers200(t *testing.T) {
	srv, _ := newTestServer(t, &stubLLM{err: assert.AnError})

	resp := postJSON(t, srv.URL+"/api/chat", ChatRequest{
		Message: "hello",
		UserID:  "user-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[ChatResponse](t, resp)
	assert.Equal(t, apologyMessage, body.Response)
	assert.Equal(t, 0, body.MessageCount)
}
