package prompt

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RegisterRoutes registers prompt routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.With(middleware.RequestSize(h.maxRequestSize)).Post("/api/enhance-prompt", h.EnhancePrompt)
	r.Get("/api/prompts", h.ListPrompts)
	r.Get("/api/prompts/{prompt_id}", h.GetPrompt)
	r.Get("/api/prompts/{prompt_id}/export", h.ExportPrompt)
}
