package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/conversation"
	httpmiddleware "github.com/RamithaMN/Dental-appointment-Chatbot/internal/http/middleware"
	"github.com/RamithaMN/Dental-appointment-Chatbot/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *conversation.Handler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	ChatRatePerSecond  float64
	ChatRateBurst      int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/", cfg.ChatHandler.Root)
	r.Get("/health", cfg.ChatHandler.Health)

	r.Route("/api", func(api chi.Router) {
		if cfg.ChatRatePerSecond > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.ChatRatePerSecond, cfg.ChatRateBurst))
		}
		api.Post("/chat", cfg.ChatHandler.Chat)
		api.Route("/sessions", func(sessions chi.Router) {
			sessions.Post("/", cfg.ChatHandler.CreateSession)
			sessions.Route("/{session_id}", func(s chi.Router) {
				s.Get("/", cfg.ChatHandler.GetSession)
				s.Delete("/", cfg.ChatHandler.DeleteSession)
				s.Post("/clear", cfg.ChatHandler.ClearSession)
			})
		})
	})

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
