package repository

import (
	"context"

	"github.com/futig/prompt-enhancer/internal/entity"
)

// PromptRepository defines the interface for prompt record persistence.
// Records are append-only.
type PromptRepository interface {
	// Create assigns a fresh id and creation time to prompt and stores it
	Create(ctx context.Context, prompt entity.Prompt) (*entity.Prompt, error)
	// List returns at most limit records, newest first
	List(ctx context.Context, limit int) ([]*entity.Prompt, error)
	Get(ctx context.Context, id string) (*entity.Prompt, error)
}
