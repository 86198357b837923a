package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/futig/prompt-enhancer/internal/config"
	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/integration/common"
	"github.com/futig/prompt-enhancer/internal/pkg/metrics"
	pkghttp "github.com/futig/prompt-enhancer/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const breakerName = "llm"

type Connector struct {
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	breaker   *gobreaker.CircuitBreaker
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Connector {
	c := &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig),
		config:    cfg,
		metrics:   m,
		logger:    logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     breakerName,
		Interval: cfg.Breaker.Interval,
		Timeout:  cfg.Breaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.Breaker.MaxFailures
		},
		OnStateChange: c.onStateChange,
		IsSuccessful:  isBreakerSuccess,
	})

	return c
}

// Complete sends req to the chat completions endpoint and returns the first
// choice's content.
func (c *Connector) Complete(ctx context.Context, req *entity.ChatCompletionRequest) (string, error) {
	if c.config.Token == "" {
		return "", entity.ErrMissingAPIKey
	}

	ctxzap.Info(ctx, "requesting chat completion",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
	)

	start := time.Now()
	var resp entity.ChatCompletionResponse
	err := retry.Do(
		func() error {
			_, err := c.breaker.Execute(func() (interface{}, error) {
				return nil, c.connector.DoRequest(ctx, http.MethodPost, c.config.CompletionsEndpoint, req, &resp)
			})
			return err
		},
		c.config.Retry.ToRetryOptions(ctx, pkghttp.IsRetryable)...,
	)
	c.metrics.CompletionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		ctxzap.Warn(ctx, "chat completion failed", zap.Error(err))
		return "", upstreamError(err)
	}

	content := resp.Content()
	if content == "" {
		return "", entity.ErrEmptyCompletion
	}

	ctxzap.Info(ctx, "chat completion received", zap.Int("content_length", len(content)))

	return content, nil
}

func (c *Connector) onStateChange(name string, from, to gobreaker.State) {
	c.logger.Warn("circuit breaker state changed",
		zap.String("breaker", name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
	c.metrics.BreakerStateChanges.WithLabelValues(to.String()).Inc()
}

func upstreamError(err error) error {
	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Errorf("%w: %d - %s", entity.ErrUpstream, httpErr.StatusCode, httpErr.Message)
	}

	return fmt.Errorf("%w: %w", entity.ErrUpstream, err)
}

// Client errors and cancellations say nothing about upstream health.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) {
		return true
	}

	var httpErr *pkghttp.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode < http.StatusInternalServerError &&
			httpErr.StatusCode != http.StatusTooManyRequests
	}

	return false
}
