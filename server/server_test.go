package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/onnwee/mentionbot/bot"
	"github.com/onnwee/mentionbot/telemetry"
)

func newTestHandlers(ready bool) *Handlers {
	status := bot.NewStatus()
	status.SetConnected(ready)
	h := NewHandlers(status, Info{Channel: "testchannel", BotName: "testbot", Model: "llama2"}, "http://localhost:0")
	if ready {
		h.genCheck = func(ctx context.Context) error { return nil }
	} else {
		h.genCheck = func(ctx context.Context) error { return fmt.Errorf("unreachable") }
	}
	return h
}

func TestHealthz(t *testing.T) {
	telemetry.Init()
	mux := NewMux(newTestHandlers(true))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
	if rr.Body.String() != "ok" {
		t.Errorf("body = %q, want ok", rr.Body.String())
	}
}

func TestReadyz(t *testing.T) {
	telemetry.Init()

	t.Run("ready", func(t *testing.T) {
		mux := NewMux(newTestHandlers(true))
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
		}
	})

	t.Run("chat disconnected", func(t *testing.T) {
		mux := NewMux(newTestHandlers(false))
		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)

		if rr.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rr.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid json: %v", err)
		}
		if body["failed_check"] != "chat" {
			t.Errorf("failed_check = %q, want chat", body["failed_check"])
		}
	})
}

func TestStatusEndpoint(t *testing.T) {
	telemetry.Init()
	mux := NewMux(newTestHandlers(true))

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var body struct {
		Channel   string `json:"channel"`
		BotName   string `json:"bot_name"`
		Model     string `json:"model"`
		Connected bool   `json:"connected"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body.Channel != "testchannel" || body.BotName != "testbot" || body.Model != "llama2" {
		t.Errorf("unexpected identity block: %+v", body)
	}
	if !body.Connected {
		t.Error("expected connected=true")
	}
}

func TestCorrelationIDInjected(t *testing.T) {
	telemetry.Init()
	mux := NewMux(newTestHandlers(true))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if rr.Header().Get("X-Correlation-ID") == "" {
		t.Error("missing generated X-Correlation-ID header")
	}

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Correlation-ID", "fixed-id")
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Correlation-ID"); got != "fixed-id" {
		t.Errorf("correlation id = %q, want fixed-id", got)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	telemetry.Init()
	mux := NewMux(newTestHandlers(true))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if rr.Body.Len() == 0 {
		t.Error("empty metrics body")
	}
}

func TestCORSPreflight(t *testing.T) {
	telemetry.Init()
	t.Setenv("ENV", "dev")
	mux := NewMux(newTestHandlers(true))

	req := httptest.NewRequest(http.MethodOptions, "/status", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rr.Code)
	}
	if rr.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("dev mode should allow all origins")
	}
}
