// Package telemetry provides Prometheus metrics and correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	MessagesSeen       prometheus.Counter
	MentionsDetected   prometheus.Counter
	IgnoredAttempts    prometheus.Counter
	RepliesSucceeded   prometheus.Counter
	RepliesFailed      prometheus.Counter
	HandlerErrors      prometheus.Counter
	LogWriteFailures   prometheus.Counter
	GenerationCalls    prometheus.Counter
	GenerationFailures prometheus.Counter

	// Histograms (seconds)
	GenerationDuration prometheus.Observer

	// Gauges
	ChatConnectedGauge prometheus.Gauge // 1=connected,0=disconnected
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		MessagesSeen = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_messages_seen_total", Help: "Number of chat messages observed"})
		MentionsDetected = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_mentions_total", Help: "Number of messages that mentioned the bot"})
		IgnoredAttempts = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_ignored_attempts_total", Help: "Number of mentions suppressed because the author is ignored"})
		RepliesSucceeded = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_replies_succeeded_total", Help: "Number of replies sent with generated text"})
		RepliesFailed = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_replies_failed_total", Help: "Number of fallback replies sent after a failed generation"})
		HandlerErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_handler_errors_total", Help: "Number of mention handlers that ended in the error path"})
		LogWriteFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_log_write_failures_total", Help: "Number of interaction log writes that failed"})
		GenerationCalls = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_generation_calls_total", Help: "Number of generation endpoint calls issued"})
		GenerationFailures = promauto.NewCounter(prometheus.CounterOpts{Name: "bot_generation_failures_total", Help: "Number of generation calls that returned no usable text"})
		GenerationDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "bot_generation_duration_seconds", Help: "Generation endpoint call duration seconds", Buckets: prometheus.DefBuckets})
		ChatConnectedGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "bot_chat_connected", Help: "Twitch chat connection up=1 down=0"})
	})
}

// UpdateChatConnected sets gauge to 1 if connected else 0.
func UpdateChatConnected(connected bool) {
	if ChatConnectedGauge != nil {
		if connected {
			ChatConnectedGauge.Set(1)
		} else {
			ChatConnectedGauge.Set(0)
		}
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
