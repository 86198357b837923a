package prompt

import (
	"context"

	"github.com/futig/prompt-enhancer/internal/entity"
)

type LLMConnector interface {
	Complete(ctx context.Context, req *entity.ChatCompletionRequest) (string, error)
}
