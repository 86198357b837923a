package repository

import (
	"context"
	"time"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/google/uuid"
)

var _ PromptRepository = &PromptDiscard{}

// PromptDiscard accepts records without keeping them. It backs deployments
// where no instance outlives a single request.
type PromptDiscard struct{}

func NewPromptDiscard() *PromptDiscard {
	return &PromptDiscard{}
}

func (r *PromptDiscard) Create(_ context.Context, prompt entity.Prompt) (*entity.Prompt, error) {
	prompt.ID = uuid.NewString()
	prompt.CreatedAt = time.Now().UTC()
	return &prompt, nil
}

func (r *PromptDiscard) List(context.Context, int) ([]*entity.Prompt, error) {
	return []*entity.Prompt{}, nil
}

func (r *PromptDiscard) Get(context.Context, string) (*entity.Prompt, error) {
	return nil, entity.ErrPromptNotFound
}
