package prompt

import (
	"context"

	"github.com/futig/prompt-enhancer/internal/entity"
)

type PromptUsecase interface {
	Enhance(ctx context.Context, req *entity.EnhancePromptRequest) (*entity.EnhancePromptResponse, error)
	List(ctx context.Context, req *entity.ListPromptsRequest) ([]*entity.Prompt, error)
	Get(ctx context.Context, id string) (*entity.Prompt, error)
	Export(ctx context.Context, id string, format entity.ResultFormat) (*entity.ExportResult, error)
}
