package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/futig/prompt-enhancer/internal/config"
	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/pkg/metrics"
	pkgRetry "github.com/futig/prompt-enhancer/internal/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testEndpoint = "/openai/v1/chat/completions"

func newTestConfig(url, token string) config.LLMConnectorConfig {
	return config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Token:                 token,
			Url:                   url,
		},
		CompletionsEndpoint: testEndpoint,
		Model:               "llama-3.3-70b-versatile",
		Temperature:         0.6,
		MaxTokens:           2048,
		Breaker: config.BreakerConfig{
			MaxFailures: 2,
			OpenTimeout: time.Minute,
			Interval:    time.Minute,
		},
		Retry: *pkgRetry.DefaultRetryConfig(),
	}
}

func newTestRequest() *entity.ChatCompletionRequest {
	return &entity.ChatCompletionRequest{
		Model: "llama-3.3-70b-versatile",
		Messages: []entity.ChatMessage{
			{Role: entity.RoleSystem, Content: "system"},
			{Role: entity.RoleUser, Content: "Convert this prompt into detailed JSON: a cat"},
		},
		Temperature: 0.6,
		MaxTokens:   2048,
	}
}

func TestComplete_Success(t *testing.T) {
	var got entity.ChatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, testEndpoint, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"{\"subject\":\"cat\"}"}}]}`))
	}))
	defer server.Close()

	c := NewConnector(newTestConfig(server.URL, "secret"), metrics.New(), zaptest.NewLogger(t))

	content, err := c.Complete(context.Background(), newTestRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"subject":"cat"}`, content)

	assert.Equal(t, "llama-3.3-70b-versatile", got.Model)
	assert.Equal(t, 2048, got.MaxTokens)
	assert.InDelta(t, 0.6, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, entity.RoleSystem, got.Messages[0].Role)
	assert.Equal(t, entity.RoleUser, got.Messages[1].Role)
}

func TestComplete_MissingAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := NewConnector(newTestConfig(server.URL, ""), metrics.New(), zaptest.NewLogger(t))

	_, err := c.Complete(context.Background(), newTestRequest())
	require.ErrorIs(t, err, entity.ErrMissingAPIKey)
	assert.Zero(t, calls.Load())
}

func TestComplete_UpstreamError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"over capacity"}}`))
	}))
	defer server.Close()

	c := NewConnector(newTestConfig(server.URL, "secret"), metrics.New(), zaptest.NewLogger(t))

	_, err := c.Complete(context.Background(), newTestRequest())
	require.ErrorIs(t, err, entity.ErrUpstream)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "over capacity")
	assert.Equal(t, int32(1), calls.Load(), "no retries by default")
}

func TestComplete_RetriesWhenConfigured(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	cfg := newTestConfig(server.URL, "secret")
	cfg.Retry.Attempts = 3
	cfg.Retry.Delay = time.Millisecond
	cfg.Retry.MaxDelay = time.Millisecond
	c := NewConnector(cfg, metrics.New(), zaptest.NewLogger(t))

	content, err := c.Complete(context.Background(), newTestRequest())
	require.NoError(t, err)
	assert.Equal(t, "ok", content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestComplete_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`invalid api key`))
	}))
	defer server.Close()

	cfg := newTestConfig(server.URL, "secret")
	cfg.Retry.Attempts = 3
	cfg.Retry.Delay = time.Millisecond
	c := NewConnector(cfg, metrics.New(), zaptest.NewLogger(t))

	_, err := c.Complete(context.Background(), newTestRequest())
	require.ErrorIs(t, err, entity.ErrUpstream)
	assert.Contains(t, err.Error(), "401 - invalid api key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestComplete_EmptyContent(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no choices", body: `{"choices":[]}`},
		{name: "no message", body: `{"choices":[{"index":0}]}`},
		{name: "empty content", body: `{"choices":[{"message":{"role":"assistant","content":""}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewConnector(newTestConfig(server.URL, "secret"), metrics.New(), zaptest.NewLogger(t))

			_, err := c.Complete(context.Background(), newTestRequest())
			require.ErrorIs(t, err, entity.ErrEmptyCompletion)
		})
	}
}

func TestComplete_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewConnector(newTestConfig(server.URL, "secret"), metrics.New(), zaptest.NewLogger(t))

	for i := 0; i < 2; i++ {
		_, err := c.Complete(context.Background(), newTestRequest())
		require.ErrorIs(t, err, entity.ErrUpstream)
	}

	_, err := c.Complete(context.Background(), newTestRequest())
	require.ErrorIs(t, err, entity.ErrUpstream)
	assert.Contains(t, err.Error(), "circuit breaker is open")
	assert.Equal(t, int32(2), calls.Load())
}

func TestMockConnector(t *testing.T) {
	m := NewMockConnector(zaptest.NewLogger(t))

	content, err := m.Complete(context.Background(), newTestRequest())
	require.NoError(t, err)
	assert.Contains(t, content, "```json")

	req := newTestRequest()
	req.Messages[0].Content = "Use these headers:\n[SUBJECT]\n[MOOD]"
	content, err = m.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, content, "[SUBJECT]")
}
