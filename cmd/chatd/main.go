// chatd is the chat backend server: research and voting orchestrators over
// a shared SQLite session store, exposed as an HTTP API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/suzudai/my-chat-app/logging"
	"github.com/suzudai/my-chat-app/model"
	"github.com/suzudai/my-chat-app/model/anthropic"
	"github.com/suzudai/my-chat-app/model/openai"
	"github.com/suzudai/my-chat-app/research"
	"github.com/suzudai/my-chat-app/search"
	"github.com/suzudai/my-chat-app/server"
	"github.com/suzudai/my-chat-app/session"
)

type config struct {
	Port          string
	DBPath        string
	MaxIterations int
	TavilyAPIKey  string
}

func loadConfig() config {
	maxIterations := getEnvInt("RESEARCH_MAX_ITERATIONS", research.DefaultMaxIterations)
	if maxIterations < 1 {
		maxIterations = research.DefaultMaxIterations
	}
	return config{
		Port:          getEnv("PORT", "8000"),
		DBPath:        getEnv("DB_PATH", "./data/chathistory.db"),
		MaxIterations: maxIterations,
		TavilyAPIKey:  os.Getenv("TAVILY_API_KEY"),
	}
}

// buildSearchClient picks the live backend when credentials exist; research
// tools degrade to their canned fallbacks on an empty fixture backend.
func buildSearchClient(cfg config) search.Client {
	if cfg.TavilyAPIKey != "" {
		slog.Info("Search backend: tavily")
		return search.NewTavilyClient(cfg.TavilyAPIKey)
	}
	slog.Warn("TAVILY_API_KEY not set; research tools will return fallback text only")
	return search.NewStaticClient()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// buildRegistry registers one model per configured provider credential.
func buildRegistry() *model.Registry {
	registry := model.NewRegistry()

	if os.Getenv("OPENAI_API_KEY") != "" {
		registry.Register("gpt-4o-mini", "GPT-4o Mini", openai.NewModel())
		registry.Register("gpt-4o", "GPT-4o", openai.NewModel(func(o *openai.Options) {
			o.Model = "gpt-4o"
		}))
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		registry.Register("claude-3-5-sonnet", "Claude 3.5 Sonnet", anthropic.NewModel())
	}

	return registry
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg := loadConfig()
	slog.Info("Starting chatd", "port", cfg.Port, "db_path", cfg.DBPath, "max_iterations", cfg.MaxIterations)

	registry := buildRegistry()
	if len(registry.List()) == 0 {
		slog.Error("No model provider configured; set OPENAI_API_KEY or ANTHROPIC_API_KEY")
		os.Exit(1)
	}

	store, err := session.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close session store", "error", closeErr)
		}
	}()

	if err := store.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	appLogger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false).WithComponent("chatd")
	handler := server.NewHandler(store, registry, func(o *server.Options) {
		o.Tools = search.Tools(buildSearchClient(cfg))
		o.MaxIterations = cfg.MaxIterations
		o.Logger = appLogger
	})

	// SSE responses need an unbounded write timeout.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
