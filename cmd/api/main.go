package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/RamithaMN/Dental-appointment-Chatbot/cmd/mainconfig"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/api/router"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/calendar"
	appconfig "github.com/RamithaMN/Dental-appointment-Chatbot/internal/config"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/conversation"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/observability/metrics"
	"github.com/RamithaMN/Dental-appointment-Chatbot/internal/session"
	"github.com/RamithaMN/Dental-appointment-Chatbot/pkg/logging"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting dental chatbot API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"provider", cfg.LLMProvider,
	)

	chatMetrics := metrics.NewChatMetrics(nil)
	store := session.NewStore(cfg.SessionTimeout, cfg.MaxHistoryTurns, logger)

	llm, model := buildLLMClient(cfg, logger)

	policy := calendar.DefaultPolicy()
	policy.SaturdayCloseHour = cfg.SaturdayCloseHour

	var transcripts conversation.TranscriptSink
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		transcripts = conversation.NewTranscriptStore(redis.NewClient(opts), nil)
		logger.Info("transcript mirror enabled", "addr", cfg.RedisAddr)
	}

	service := conversation.NewService(conversation.ServiceConfig{
		LLM:          llm,
		ProviderName: cfg.LLMProvider,
		Model:        model,
		MaxTokens:    int32(cfg.LLMMaxTokens),
		Temperature:  float32(cfg.LLMTemperature),
		Store:        store,
		Rewriter:     conversation.NewRewriter(policy, logger, chatMetrics),
		Prompts:      conversation.NewPromptBuilder(cfg.ChatbotName, cfg.ChatbotRole),
		Transcripts:  transcripts,
		Logger:       logger,
		Metrics:      chatMetrics,
	})

	handler := conversation.NewHandler(service, store, cfg.LLMProvider, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        handler,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRatePerSecond:  cfg.ChatRatePerSecond,
		ChatRateBurst:      cfg.ChatRateBurst,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go sweepLoop(sweepCtx, store, chatMetrics, cfg.SessionSweepPeriod, logger)

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stopSweep()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildLLMClient selects the completion provider. Hosted providers are
// wrapped with a mock fallback so a transient outage degrades to canned
// answers instead of failing the chat endpoint.
func buildLLMClient(cfg *appconfig.Config, logger *logging.Logger) (conversation.LLMClient, string) {
	mock := conversation.NewMockLLMClient()

	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("GEMINI_API_KEY not set, falling back to mock provider")
			return mock, ""
		}
		client, err := conversation.NewGeminiLLMClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to initialize gemini client, falling back to mock", "error", err)
			return mock, ""
		}
		return conversation.NewFallbackLLMClient(client, mock, logger), cfg.GeminiModelID
	case "bedrock":
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config, falling back to mock", "error", err)
			return mock, ""
		}
		client := conversation.NewBedrockLLMClient(bedrockruntime.NewFromConfig(awsCfg))
		return conversation.NewFallbackLLMClient(client, mock, logger), cfg.BedrockModelID
	default:
		return mock, ""
	}
}

// sweepLoop periodically evicts expired sessions so memory stays bounded
// even for sessions nobody touches again.
func sweepLoop(ctx context.Context, store *session.Store, m *metrics.ChatMetrics, period time.Duration, logger *logging.Logger) {
	if period <= 0 {
		return
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := store.Sweep(); n > 0 {
				logger.Info("swept expired sessions", "count", n)
				m.ObserveSwept(n)
			}
			m.SetActiveSessions(store.Len())
		}
	}
}
