// Package ollama contains a minimal client for a locally hosted Ollama
// generation endpoint. One call per triggering chat message, fixed timeout,
// no retries.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/onnwee/mentionbot/telemetry"
)

// DefaultTimeout bounds the whole generation call; after it the request is
// abandoned and treated as a failure.
const DefaultTimeout = 30 * time.Second

// Client issues generation requests against {BaseURL}/api/generate.
type Client struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewClient returns a client with the default 30s-timeout HTTP client.
func NewClient(baseURL, model string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Model:      model,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// ResultKind distinguishes the three outcomes of a generation call.
type ResultKind int

const (
	// Generated means HTTP 200 with a parsed response body. Text may still be
	// empty if the model returned nothing.
	Generated ResultKind = iota
	// BadStatus means the endpoint answered with a non-200 status.
	BadStatus
	// TransportError covers timeouts, connection failures, and malformed
	// response bodies.
	TransportError
)

// Result is the outcome of one generation call, consumed by a switch in the
// mention handler rather than by error propagation.
type Result struct {
	Kind   ResultKind
	Text   string // set when Kind == Generated
	Status int    // set when Kind == BadStatus
	Err    error  // set when Kind == TransportError
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// BuildPrompt concatenates the system prompt with the triggering message and a
// static instruction framing the reply as Twitch chat.
func BuildPrompt(systemPrompt, username, message string) string {
	return fmt.Sprintf("%s\n\nThe user %s said: %s\nRespond naturally as if you're chatting in Twitch.", systemPrompt, username, message)
}

// Generate performs one POST to {BaseURL}/api/generate and classifies the
// outcome. It never returns an error; failures are encoded in the Result.
func (c *Client) Generate(ctx context.Context, systemPrompt, username, message string) Result {
	ctx, span := telemetry.StartSpan(ctx, "ollama", "ollama.generate",
		telemetry.ModelAttr(c.Model),
		telemetry.UserAttr(username),
	)
	defer span.End()

	inc(telemetry.GenerationCalls)

	body, err := json.Marshal(generateRequest{
		Model:  c.Model,
		Prompt: BuildPrompt(systemPrompt, username, message),
		Stream: false,
	})
	if err != nil {
		telemetry.RecordError(span, err)
		inc(telemetry.GenerationFailures)
		return Result{Kind: TransportError, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		telemetry.RecordError(span, err)
		inc(telemetry.GenerationFailures)
		return Result{Kind: TransportError, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.http().Do(req)
	observe(telemetry.GenerationDuration, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err)
		inc(telemetry.GenerationFailures)
		return Result{Kind: TransportError, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		telemetry.SetSpanHTTPStatus(span, resp.StatusCode)
		inc(telemetry.GenerationFailures)
		slog.Warn("generation endpoint returned non-200", slog.Int("status", resp.StatusCode), slog.String("model", c.Model))
		return Result{Kind: BadStatus, Status: resp.StatusCode}
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		telemetry.RecordError(span, err)
		inc(telemetry.GenerationFailures)
		return Result{Kind: TransportError, Err: fmt.Errorf("decode generation response: %w", err)}
	}

	telemetry.SetSpanSuccess(span)
	return Result{Kind: Generated, Text: strings.TrimSpace(parsed.Response)}
}

func inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}

func observe(obs prometheus.Observer, d time.Duration) {
	if obs != nil {
		obs.Observe(d.Seconds())
	}
}
