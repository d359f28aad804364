package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/onnwee/mentionbot/bot"
)

// Info is the static identity block reported by /status.
type Info struct {
	Channel string `json:"channel"`
	BotName string `json:"bot_name"`
	Model   string `json:"model"`
	LogPath string `json:"log_path,omitempty"`
}

// Handlers carries the dependencies of the operational endpoints.
type Handlers struct {
	status   *bot.Status
	info     Info
	genCheck func(ctx context.Context) error
}

// NewHandlers wires handlers to the bot's live status and identity. ollamaURL
// is probed by /readyz; pass the configured base URL.
func NewHandlers(status *bot.Status, info Info, ollamaURL string) *Handlers {
	return &Handlers{
		status:   status,
		info:     info,
		genCheck: defaultGenCheck(ollamaURL),
	}
}

// defaultGenCheck probes the generation endpoint's tag listing, which answers
// quickly without loading a model.
func defaultGenCheck(baseURL string) func(ctx context.Context) error {
	client := &http.Client{Timeout: 3 * time.Second}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/tags", nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("generation endpoint returned %d", resp.StatusCode)
		}
		return nil
	}
}

// HandleHealthz responds to liveness probe requests.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleReadyz responds to readiness probe requests: ready once chat is
// connected and the generation endpoint answers.
func (h *Handlers) HandleReadyz(w http.ResponseWriter, r *http.Request) {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"chat", func() error {
			if !h.status.Snapshot().Connected {
				return fmt.Errorf("twitch chat not connected")
			}
			return nil
		}},
		{"generation_endpoint", func() error { return h.genCheck(r.Context()) }},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
				"error":        err.Error(),
			})
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}

// HandleStatus reports the bot's identity and live counters.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		Info
		bot.Snapshot
	}{h.info, h.status.Snapshot()}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode status", http.StatusInternalServerError)
	}
}
