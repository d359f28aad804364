// Package interactionlog appends a structured record of each handled chat
// event to a per-run log file. Writes are serialized and never fail the
// caller: losing a log entry must not prevent a chat reply.
package interactionlog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/onnwee/mentionbot/telemetry"
)

// Kind tags one interaction record.
type Kind string

const (
	IgnoredAttempt Kind = "IGNORED USER ATTEMPT"
	Success        Kind = "SUCCESSFUL RESPONSE"
	Failure        Kind = "FAILED RESPONSE"
	Error          Kind = "ERROR"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	filenameLayout  = "20060102_150405"
)

// Logger owns the per-run log file. Construct once at startup with Open and
// inject into the handler; a nil *Logger is a valid no-op sink.
type Logger struct {
	mu   sync.Mutex
	f    *os.File
	path string
	now  func() time.Time
}

// Open creates bot_log_<timestamp>.txt under dir in append mode and writes the
// header block. The caller decides whether an open failure is fatal; by
// contract it should not be.
func Open(dir, channel, botName, model string) (*Logger, error) {
	now := time.Now()
	path := filepath.Join(dir, fmt.Sprintf("bot_log_%s.txt", now.Format(filenameLayout)))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open interaction log: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "=== Twitch Bot Log Started: %s ===\n", now.Format(timestampLayout))
	fmt.Fprintf(&b, "Channel: %s\n", channel)
	fmt.Fprintf(&b, "Bot Name: %s\n", botName)
	fmt.Fprintf(&b, "Ollama Model: %s\n", model)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write interaction log header: %w", err)
	}

	slog.Info("interaction log created", slog.String("path", path))
	return &Logger{f: f, path: path, now: time.Now}, nil
}

// Path returns the log file path, or empty for a no-op logger.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record appends one block: timestamp, kind, username, original message, and
// the response/error text if present. One write per call so overlapping
// handler goroutines never interleave partial records. Write failures are
// counted and logged, never returned.
func (l *Logger) Record(kind Kind, username, message, response string) {
	if l == nil || l.f == nil {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", l.now().Format(timestampLayout), kind)
	fmt.Fprintf(&b, "User: %s\n", username)
	fmt.Fprintf(&b, "Message: %s\n", message)
	if response != "" {
		fmt.Fprintf(&b, "Bot Response: %s\n", response)
	}
	b.WriteString(strings.Repeat("-", 30) + "\n\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.f.WriteString(b.String()); err != nil {
		if telemetry.LogWriteFailures != nil {
			telemetry.LogWriteFailures.Inc()
		}
		slog.Error("failed to write interaction record", slog.String("path", l.path), slog.Any("err", err))
	}
}

// Close flushes and closes the underlying file.
func (l *Logger) Close() error {
	if l == nil || l.f == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
