package handlers

import (
	"context"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/telegram/render"
	"go.uber.org/zap"
)

// HistoryHandler lists the latest enhanced prompts
type HistoryHandler struct {
	BaseHandler
	promptUC PromptUsecase
	size     int
}

func NewHistoryHandler(bot Sender, promptUC PromptUsecase, size int, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		BaseHandler: BaseHandler{
			routes:        []string{RouteHistory},
			messageSender: NewMessageSender(bot, logger),
		},
		promptUC: promptUC,
		size:     size,
	}
}

func (h *HistoryHandler) Handle(ctx context.Context, msg *Message) error {
	prompts, err := h.promptUC.List(ctx, &entity.ListPromptsRequest{Limit: h.size})
	if err != nil {
		reportError(ctx, h.messageSender, msg.ChatID, err)
		return nil
	}

	return h.messageSender.Send(msg.ChatID, render.History(prompts), "")
}
