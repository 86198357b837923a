package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	promptapi "github.com/futig/prompt-enhancer/internal/api/prompt"
	"github.com/futig/prompt-enhancer/internal/config"
	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/integration/llm"
	"github.com/futig/prompt-enhancer/internal/pkg/formatter"
	"github.com/futig/prompt-enhancer/internal/pkg/metrics"
	pkgRetry "github.com/futig/prompt-enhancer/internal/pkg/retry"
	"github.com/futig/prompt-enhancer/internal/pkg/validator"
	"github.com/futig/prompt-enhancer/internal/repository"
	promptuc "github.com/futig/prompt-enhancer/internal/usecase/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeModel struct {
	status  int
	content string
	body    string
	calls   atomic.Int32
}

func (f *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls.Add(1)
	if f.status != 0 && f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"choices": []map[string]any{
			{"index": 0, "message": map[string]string{"role": "assistant", "content": f.content}},
		},
	})
}

func newTestServer(t *testing.T, model *fakeModel, token string) http.Handler {
	t.Helper()

	upstream := httptest.NewServer(model)
	t.Cleanup(upstream.Close)

	logger := zaptest.NewLogger(t)
	m := metrics.New()

	instructions, err := config.LoadInstructions("")
	require.NoError(t, err)

	connector := llm.NewConnector(config.LLMConnectorConfig{
		HTTPClientConfig: config.HTTPClientConfig{
			RequestTimeout:        5 * time.Second,
			ConnTimeout:           time.Second,
			KeepAlive:             time.Second,
			IdleConnTimeout:       time.Second,
			ResponseHeaderTimeout: 5 * time.Second,
			Token:                 token,
			Url:                   upstream.URL,
		},
		CompletionsEndpoint: "/openai/v1/chat/completions",
		Model:               "llama-3.3-70b-versatile",
		Temperature:         0.6,
		MaxTokens:           2048,
		Breaker:             config.BreakerConfig{MaxFailures: 5, OpenTimeout: time.Minute, Interval: time.Minute},
		Retry:               *pkgRetry.DefaultRetryConfig(),
	}, m, logger)

	uc := promptuc.NewUsecase(
		promptuc.Config{
			Model:          "llama-3.3-70b-versatile",
			Temperature:    0.6,
			MaxTokens:      2048,
			DefaultVariant: entity.VariantJSON,
			Instructions:   instructions,
		},
		repository.NewPromptMemory(),
		connector,
		validator.New(),
		formatter.NewFactory(),
		m,
		logger,
	)

	return SetupRouter(promptapi.NewHandler(uc, 65536), m, 10*time.Second, logger.WithOptions(zap.IncreaseLevel(zap.WarnLevel)))
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestEnhanceAndList(t *testing.T) {
	model := &fakeModel{content: "```json\n{\"subject\": \"a cat\", \"overall_mood\": \"cozy\"}\n```"}
	srv := newTestServer(t, model, "secret")

	rec := post(t, srv, "/api/enhance-prompt", `{"rawPrompt":"a cat"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		ID             string          `json:"id"`
		EnhancedPrompt json.RawMessage `json:"enhancedPrompt"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, `{"subject":"a cat","overall_mood":"cozy"}`, string(resp.EnhancedPrompt))

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/prompts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var prompts []entity.Prompt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &prompts))
	require.Len(t, prompts, 1)
	assert.Equal(t, resp.ID, prompts[0].ID)
	assert.Equal(t, "a cat", prompts[0].RawPrompt)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/prompts/"+resp.ID+"/export?format=pdf", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestEnhance_RemoteNotCalledOnBadInput(t *testing.T) {
	model := &fakeModel{content: `{}`}
	srv := newTestServer(t, model, "secret")

	for _, body := range []string{`{}`, `{"rawPrompt":null}`, `{"rawPrompt":""}`, `{"rawPrompt":7}`} {
		rec := post(t, srv, "/api/enhance-prompt", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.JSONEq(t, `{"error":"Raw prompt is required and must be a string"}`, rec.Body.String())
	}
	assert.Zero(t, model.calls.Load())
}

func TestEnhance_MissingKey(t *testing.T) {
	model := &fakeModel{content: `{}`}
	srv := newTestServer(t, model, "")

	rec := post(t, srv, "/api/enhance-prompt", `{"rawPrompt":"a cat"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "API key")
	assert.Zero(t, model.calls.Load())
}

func TestEnhance_RemoteFailure(t *testing.T) {
	model := &fakeModel{status: http.StatusTooManyRequests, body: `rate limit reached`}
	srv := newTestServer(t, model, "secret")

	rec := post(t, srv, "/api/enhance-prompt", `{"rawPrompt":"a cat"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "429")
	assert.Contains(t, rec.Body.String(), "rate limit reached")
}

func TestEnhance_NotJSON(t *testing.T) {
	model := &fakeModel{content: "Here is a lovely prompt about a cat."}
	srv := newTestServer(t, model, "secret")

	rec := post(t, srv, "/api/enhance-prompt", `{"rawPrompt":"a cat"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to parse enhanced prompt")
}

func TestRouter(t *testing.T) {
	srv := newTestServer(t, &fakeModel{}, "secret")

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: http.StatusOK, wantBody: `{"status":"healthy"}`},
		{name: "wrong method on enhance", method: http.MethodGet, path: "/api/enhance-prompt", wantStatus: http.StatusMethodNotAllowed, wantBody: `{"error":"Method not allowed"}`},
		{name: "wrong method on list", method: http.MethodDelete, path: "/api/prompts", wantStatus: http.StatusMethodNotAllowed, wantBody: `{"error":"Method not allowed"}`},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound, wantBody: `{"error":"Not found"}`},
		{name: "plain options on enhance", method: http.MethodOptions, path: "/api/enhance-prompt", wantStatus: http.StatusMethodNotAllowed, wantBody: `{"error":"Method not allowed"}`},
		{name: "plain options on unknown route", method: http.MethodOptions, path: "/api/unknown", wantStatus: http.StatusNotFound, wantBody: `{"error":"Not found"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, &fakeModel{content: `{"subject":"a cat"}`}, "secret")

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/enhance-prompt", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Less(t, rec.Code, http.StatusMultipleChoices)
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/enhance-prompt", strings.NewReader(`{"rawPrompt":"a cat"}`))
		req.Header.Set("Origin", "https://app.example.com")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeModel{content: `{"subject":"a cat"}`}, "secret")

	rec := post(t, srv, "/api/enhance-prompt", `{"rawPrompt":"a cat"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `prompt_enhancer_enhancements_total{outcome="success",variant="json"} 1`)
	assert.Contains(t, body, `route="/api/enhance-prompt"`)
}
