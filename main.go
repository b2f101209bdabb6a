package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/msomdec/pomodeck/internal/api"
	"github.com/msomdec/pomodeck/internal/handler"
	"github.com/msomdec/pomodeck/internal/repository/sqlite"
	"github.com/msomdec/pomodeck/internal/service"
	"github.com/msomdec/pomodeck/internal/session"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(envOrDefault("LOG_LEVEL", "info"))); err != nil {
		level = slog.LevelInfo
	}
	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	port := envOrDefault("PORT", "8080")
	apiBaseURL := envOrDefault("API_BASE_URL", "http://localhost:3001")
	dbPath := envOrDefault("STATE_DB_PATH", "pomodeck.db")
	stateSecret := os.Getenv("STATE_SECRET")
	if stateSecret == "" {
		slog.Warn("STATE_SECRET is not set; the session token is stored unencrypted")
	}

	apiTimeout := durationEnv("API_TIMEOUT", 10*time.Second)
	renewInterval := durationEnv("TOKEN_RENEW_INTERVAL", session.DefaultRenewInterval)

	focus := service.DefaultFocus
	if v := os.Getenv("FOCUS_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes < 1 || minutes > 180 {
			slog.Error("FOCUS_MINUTES must be between 1 and 180", "value", v)
			os.Exit(1)
		}
		focus = time.Duration(minutes) * time.Minute
	}

	var allowedOrigins []string
	for o := range strings.SplitSeq(os.Getenv("ALLOWED_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowedOrigins = append(allowedOrigins, o)
		}
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	store, err := db.State(stateSecret)
	if err != nil {
		slog.Error("failed to open client state", "error", err)
		os.Exit(1)
	}

	state := session.New(store)
	client := api.New(apiBaseURL, state, api.WithTimeout(apiTimeout))

	authService := service.NewAuthService(client, state, service.NewThrottle(0.2, 5))
	deckService := service.NewDeckService(client)
	cardService := service.NewCardService(client)
	reflectionService := service.NewReflectionService(client)
	historyService := service.NewHistoryService(client)
	timer := service.NewPomodoroTimer(client, focus)
	review := service.NewReviewSession(client)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Pomodoro:    handler.NewPomodoroHandler(timer, cardService, state),
		Review:      handler.NewReviewHandler(review),
		Decks:       handler.NewDeckHandler(deckService, cardService),
		Reflections: handler.NewReflectionHandler(reflectionService, service.NewQuestionService(client)),
		History:     handler.NewHistoryHandler(historyService),
	}, state)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler.Wrap(mux, allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Request contexts derive from ctx so open SSE streams end on shutdown.
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	renewer := session.NewRenewer(state, client, renewInterval)
	go renewer.Run(ctx)

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "api", apiBaseURL, "focus", focus)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func durationEnv(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Error("invalid duration", "key", key, "value", v)
		os.Exit(1)
	}
	return d
}
