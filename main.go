// Command mentionbot is the main entrypoint for the Twitch mention-reply bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Loads the system prompt and ignored-users assets (best effort).
//   - Opens the per-run interaction log.
//   - Connects to Twitch IRC and answers mentions via a local Ollama endpoint.
//   - Exposes a minimal HTTP server with /healthz, /readyz, /status, /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/onnwee/mentionbot/bot"
	"github.com/onnwee/mentionbot/config"
	"github.com/onnwee/mentionbot/interactionlog"
	"github.com/onnwee/mentionbot/ollama"
	"github.com/onnwee/mentionbot/server"
	"github.com/onnwee/mentionbot/telemetry"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.ValidateChatReady(); err != nil {
		slog.Error("chat credentials missing", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdownTracing, err := telemetry.InitTracing("mentionbot", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	// Static assets: best effort, defaults on failure.
	systemPrompt := config.LoadSystemPrompt(cfg.SystemPromptFile)
	ignored := config.LoadIgnoredUsers(cfg.IgnoredUsersFile)
	slog.Info("assets loaded",
		slog.Int("ignored_users", len(ignored)),
		slog.Int("system_prompt_chars", len(systemPrompt)))

	// Interaction log: a failed open degrades to a no-op logger, never fatal.
	ilog, err := interactionlog.Open(cfg.LogDir, cfg.TwitchChannel, cfg.BotName, cfg.OllamaModel)
	if err != nil {
		slog.Error("interaction log unavailable, continuing without it", slog.Any("err", err))
		ilog = nil
	}
	defer func() {
		if err := ilog.Close(); err != nil {
			slog.Error("failed to close interaction log", slog.Any("err", err))
		}
	}()

	status := bot.NewStatus()
	handlerDeps := &bot.Handler{
		BotName:      cfg.BotName,
		SystemPrompt: systemPrompt,
		Ignored:      ignored,
		Generator:    ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel),
		Log:          ilog,
		Status:       status,
	}
	b := bot.New(cfg, handlerDeps, status)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// HTTP server: operational endpoints only.
	httpHandlers := server.NewHandlers(status, server.Info{
		Channel: cfg.TwitchChannel,
		BotName: cfg.BotName,
		Model:   cfg.OllamaModel,
		LogPath: ilog.Path(),
	}, cfg.OllamaURL)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.NewMux(httpHandlers),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("http server listening", slog.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server error", slog.Any("err", err))
		}
	}()

	slog.Info("connecting to twitch chat",
		slog.String("channel", cfg.TwitchChannel),
		slog.String("model", cfg.OllamaModel),
		slog.String("ollama_url", cfg.OllamaURL))
	if err := b.Run(ctx); err != nil {
		slog.Error("twitch chat connect error", slog.Any("err", err))
	}

	// Drain the HTTP server before exiting.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", slog.Any("err", err))
	}
	slog.Info("shutdown complete")
}
