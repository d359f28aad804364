package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// MockOllamaServer creates a test server that mocks Ollama API responses
type MockOllamaServer struct {
	*httptest.Server
	Handlers map[string]http.HandlerFunc
}

// NewMockOllamaServer creates a new mock Ollama server
func NewMockOllamaServer(t *testing.T) *MockOllamaServer {
	t.Helper()
	m := &MockOllamaServer{
		Handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if handler, ok := m.Handlers[key]; ok {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(m.Close)
	return m
}

// MockGenerateResponse adds a handler for /api/generate returning text
func (m *MockOllamaServer) MockGenerateResponse(text string) {
	m.Handlers["/api/generate"] = func(w http.ResponseWriter, r *http.Request) {
		response := map[string]interface{}{
			"response": text,
			"done":     true,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
	}
}

// MockGenerateStatus adds a handler for /api/generate answering with a bare status code
func (m *MockOllamaServer) MockGenerateStatus(code int) {
	m.Handlers["/api/generate"] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

// MockTagsResponse adds a handler for /api/tags listing available models
func (m *MockOllamaServer) MockTagsResponse(models ...string) {
	m.Handlers["/api/tags"] = func(w http.ResponseWriter, r *http.Request) {
		list := make([]map[string]string, 0, len(models))
		for _, name := range models {
			list = append(list, map[string]string{"name": name})
		}
		response := map[string]interface{}{
			"models": list,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response) //nolint:errcheck // test mock response
	}
}
