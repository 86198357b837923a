package api

import (
	"net/http"
	"time"

	"github.com/futig/prompt-enhancer/internal/api/docs"
	"github.com/futig/prompt-enhancer/internal/api/middleware"
	promptapi "github.com/futig/prompt-enhancer/internal/api/prompt"
	"github.com/futig/prompt-enhancer/internal/pkg/metrics"
	"github.com/futig/prompt-enhancer/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// SetupRouter creates and configures the HTTP router
func SetupRouter(promptHandler *promptapi.Handler, m *metrics.Metrics, requestTimeout time.Duration, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(middleware.CORS())
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, map[string]string{"status": "healthy"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	docs.RegisterRoutes(r)
	promptapi.RegisterRoutes(r, promptHandler)

	return r
}
