package llm

import (
	"context"
	"strings"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const mockJSONCompletion = "```json\n" + `{
  "subject": "a young woman with glossy side-swept hair, soft smile, looking slightly past the camera",
  "clothing": "low-rise flared jeans and a cropped velour zip-up hoodie in baby pink",
  "accessories": "tinted rimless sunglasses pushed up on the head, a silver flip phone in hand",
  "photography": {
    "camera": "early consumer digital point-and-shoot",
    "lighting": "direct on-camera flash with hard shadows",
    "shot_type": "medium shot, slightly high angle",
    "texture": "light sensor noise, mild overexposure on highlights"
  },
  "background": "a suburban shopping mall at night with neon signage",
  "overall_mood": "carefree, nostalgic, playful"
}` + "\n```"

const mockTemplateCompletion = `[SUBJECT] a young woman with glossy side-swept hair, soft smile
[CLOTHING] low-rise flared jeans and a cropped velour zip-up hoodie in baby pink
[ACCESSORIES] tinted rimless sunglasses, a silver flip phone
[PHOTOGRAPHY]
early consumer digital point-and-shoot, direct on-camera flash,
medium shot with light sensor noise
[BACKGROUND] a suburban shopping mall at night with neon signage
[MOOD] carefree, nostalgic, playful`

// MockConnector answers every completion with a canned response so the
// service runs without an API key
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

// Complete returns the sectioned sample when the system prompt asks for
// bracket headers and fenced JSON otherwise
func (m *MockConnector) Complete(ctx context.Context, req *entity.ChatCompletionRequest) (string, error) {
	ctxzap.Info(ctx, "[MOCK] requesting chat completion", zap.String("model", req.Model))

	for _, msg := range req.Messages {
		if msg.Role == entity.RoleSystem && strings.Contains(msg.Content, "[SUBJECT]") {
			return mockTemplateCompletion, nil
		}
	}

	return mockJSONCompletion, nil
}
