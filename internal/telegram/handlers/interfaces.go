package handlers

import (
	"context"

	"github.com/futig/prompt-enhancer/internal/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// PromptUsecase is the subset of prompt operations used by the bot
type PromptUsecase interface {
	Enhance(ctx context.Context, req *entity.EnhancePromptRequest) (*entity.EnhancePromptResponse, error)
	List(ctx context.Context, req *entity.ListPromptsRequest) ([]*entity.Prompt, error)
}

// Sender is the part of the Telegram Bot API the handlers talk to
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}
