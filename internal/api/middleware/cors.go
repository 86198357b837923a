package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets browser front-ends served from any origin call the API.
// Only preflight requests are answered here, plain OPTIONS requests reach
// the router.
func CORS() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	})
}
