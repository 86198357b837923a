package prompt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/pkg/logger"
	"github.com/futig/prompt-enhancer/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	msgInvalidRawPrompt = "Raw prompt is required and must be a string"
	msgBodyTooLarge     = "Request body is too large"
	msgNotFound         = "Prompt not found"
)

type Handler struct {
	usecase        PromptUsecase
	maxRequestSize int64
}

func NewHandler(usecase PromptUsecase, maxRequestSize int64) *Handler {
	return &Handler{
		usecase:        usecase,
		maxRequestSize: maxRequestSize,
	}
}

// EnhancePrompt handles POST /api/enhance-prompt
func (h *Handler) EnhancePrompt(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "EnhancePrompt")

	var req entity.EnhancePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(ctx, w, http.StatusBadRequest, msgBodyTooLarge, err)
			return
		}
		h.respondError(ctx, w, http.StatusBadRequest, msgInvalidRawPrompt, err)
		return
	}
	req.Variant = entity.Variant(r.URL.Query().Get("variant"))

	ctxzap.Debug(ctx, "enhancing prompt",
		zap.Int("raw_prompt_length", len(req.RawPrompt)),
		zap.String("variant", string(req.Variant)),
	)

	resp, err := h.usecase.Enhance(ctx, &req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// ListPrompts handles GET /api/prompts
func (h *Handler) ListPrompts(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListPrompts")

	// Unparsable limits fall back to the default
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	prompts, err := h.usecase.List(ctx, &entity.ListPromptsRequest{Limit: limit})
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, prompts)
}

// GetPrompt handles GET /api/prompts/{prompt_id}
func (h *Handler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetPrompt")
	promptID := chi.URLParam(r, "prompt_id")
	ctx = logger.AddFields(ctx, zap.String("prompt_id", promptID))

	p, err := h.usecase.Get(ctx, promptID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, p)
}

// ExportPrompt handles GET /api/prompts/{prompt_id}/export
func (h *Handler) ExportPrompt(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportPrompt")
	promptID := chi.URLParam(r, "prompt_id")
	ctx = logger.AddFields(ctx, zap.String("prompt_id", promptID))

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = entity.FormatMarkdown
	}

	result, err := h.usecase.Export(ctx, promptID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Attachment(w, result.Filename, result.ContentType, result.Data)
}

func (h *Handler) respondError(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, zap.Error(err))
	} else {
		ctxzap.Warn(ctx, message, zap.Error(err))
	}
	response.Error(w, status, message)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidInput):
		h.respondError(ctx, w, http.StatusBadRequest, msgInvalidRawPrompt, err)
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrMissingField):
		h.respondError(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrPromptNotFound):
		h.respondError(ctx, w, http.StatusNotFound, msgNotFound, err)
	default:
		h.respondError(ctx, w, http.StatusInternalServerError, err.Error(), err)
	}
}
