package prompt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/pkg/completion"
	"github.com/futig/prompt-enhancer/internal/pkg/formatter"
	"github.com/futig/prompt-enhancer/internal/pkg/metrics"
	"github.com/futig/prompt-enhancer/internal/pkg/validator"
	"github.com/futig/prompt-enhancer/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Config holds the model parameters and instruction sets used to build
// chat completion requests
type Config struct {
	Model          string
	Temperature    float64
	MaxTokens      int
	DefaultVariant entity.Variant
	Instructions   map[entity.Variant]entity.Instruction
}

// PromptUsecase implements prompt enhancement business logic
type PromptUsecase struct {
	cfg              Config
	promptRepo       repository.PromptRepository
	llmConnector     LLMConnector
	validator        *validator.Validator
	formatterFactory *formatter.Factory
	metrics          *metrics.Metrics
	logger           *zap.Logger
}

// NewUsecase creates a new prompt use case
func NewUsecase(
	cfg Config,
	promptRepo repository.PromptRepository,
	llmConnector LLMConnector,
	validator *validator.Validator,
	formatterFactory *formatter.Factory,
	m *metrics.Metrics,
	logger *zap.Logger,
) *PromptUsecase {
	return &PromptUsecase{
		cfg:              cfg,
		promptRepo:       promptRepo,
		llmConnector:     llmConnector,
		validator:        validator,
		formatterFactory: formatterFactory,
		metrics:          m,
		logger:           logger,
	}
}

// Enhance sends the raw prompt to the model, parses the completion according
// to the variant and stores the resulting pair
func (uc *PromptUsecase) Enhance(
	ctx context.Context,
	req *entity.EnhancePromptRequest,
) (*entity.EnhancePromptResponse, error) {
	if err := uc.validator.ValidateEnhancePrompt(req); err != nil {
		return nil, err
	}

	variant := req.Variant
	if variant == "" {
		variant = uc.cfg.DefaultVariant
	}

	enhanced, err := uc.enhance(ctx, variant, req.RawPrompt)
	if err != nil {
		uc.metrics.EnhancementsTotal.WithLabelValues(string(variant), outcome(err)).Inc()
		return nil, err
	}

	record, err := uc.promptRepo.Create(ctx, entity.Prompt{
		RawPrompt:      req.RawPrompt,
		EnhancedPrompt: enhanced,
	})
	if err != nil {
		uc.metrics.EnhancementsTotal.WithLabelValues(string(variant), metrics.OutcomeStoreError).Inc()
		return nil, fmt.Errorf("store prompt: %w", err)
	}

	uc.metrics.EnhancementsTotal.WithLabelValues(string(variant), metrics.OutcomeSuccess).Inc()
	ctxzap.Info(ctx, "prompt enhanced",
		zap.String("prompt_id", record.ID),
		zap.String("variant", string(variant)),
	)

	// Stores may normalize the document (jsonb reorders keys), the caller
	// gets it as parsed.
	return &entity.EnhancePromptResponse{
		ID:             record.ID,
		EnhancedPrompt: enhanced,
	}, nil
}

func (uc *PromptUsecase) enhance(ctx context.Context, variant entity.Variant, rawPrompt string) (json.RawMessage, error) {
	instruction, ok := uc.cfg.Instructions[variant]
	if !ok {
		return nil, fmt.Errorf("no instructions configured: %w", entity.ErrUnknownVariant)
	}

	content, err := uc.llmConnector.Complete(ctx, &entity.ChatCompletionRequest{
		Model: uc.cfg.Model,
		Messages: []entity.ChatMessage{
			{Role: entity.RoleSystem, Content: instruction.SystemPrompt},
			{Role: entity.RoleUser, Content: instruction.UserPrefix + rawPrompt},
		},
		Temperature: uc.cfg.Temperature,
		MaxTokens:   uc.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	text := completion.StripCodeFence(content)

	switch variant {
	case entity.VariantTemplate:
		sections, err := completion.ParseSections(text, instruction.Sections)
		if err != nil {
			ctxzap.Warn(ctx, "failed to parse sectioned completion", zap.String("content", content))
			return nil, err
		}
		return marshalSections(sections, instruction.Sections)
	default:
		doc, err := completion.ParseJSON(text)
		if err != nil {
			ctxzap.Warn(ctx, "failed to parse JSON completion", zap.String("content", content))
			return nil, err
		}
		return doc, nil
	}
}

// marshalSections encodes the parsed sections as a JSON object keeping the
// configured section order
func marshalSections(values map[string]string, sections []entity.Section) (json.RawMessage, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, s := range sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(s.Key)
		if err != nil {
			return nil, fmt.Errorf("encode section key: %w", err)
		}
		value, err := json.Marshal(values[s.Key])
		if err != nil {
			return nil, fmt.Errorf("encode section %s: %w", s.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// List returns the most recent enhanced prompts, newest first
func (uc *PromptUsecase) List(ctx context.Context, req *entity.ListPromptsRequest) ([]*entity.Prompt, error) {
	req.Normalize()

	prompts, err := uc.promptRepo.List(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}

	ctxzap.Debug(ctx, "prompts listed", zap.Int("count", len(prompts)), zap.Int("limit", req.Limit))

	return prompts, nil
}

func (uc *PromptUsecase) Get(ctx context.Context, id string) (*entity.Prompt, error) {
	p, err := uc.promptRepo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get prompt %s: %w", id, err)
	}
	return p, nil
}

// Export renders a stored prompt into a document of the requested format
func (uc *PromptUsecase) Export(ctx context.Context, id string, format entity.ResultFormat) (*entity.ExportResult, error) {
	if err := uc.validator.ValidateFormat(format); err != nil {
		return nil, err
	}

	p, err := uc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	f, err := uc.formatterFactory.Create(format)
	if err != nil {
		return nil, err
	}

	doc, err := formatter.NewDocument(p)
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}

	data, err := f.Format(doc)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", format, err)
	}

	ctxzap.Info(ctx, "prompt exported",
		zap.String("prompt_id", p.ID),
		zap.String("format", string(format)),
		zap.Int("size", len(data)),
	)

	return &entity.ExportResult{
		Filename:    fmt.Sprintf("prompt-%s%s", p.ID, f.FileExtension()),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, entity.ErrMissingAPIKey), errors.Is(err, entity.ErrUnknownVariant):
		return metrics.OutcomeConfigError
	case errors.Is(err, entity.ErrEmptyCompletion):
		return metrics.OutcomeEmptyCompletion
	case errors.Is(err, entity.ErrParse):
		return metrics.OutcomeParseError
	default:
		return metrics.OutcomeUpstreamError
	}
}
