package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/prompt-enhancer/internal/entity"
	"github.com/futig/prompt-enhancer/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// EnhanceHandler enhances every plain text message and replies with the
// structured prompt
type EnhanceHandler struct {
	BaseHandler
	bot      Sender
	promptUC PromptUsecase
	logger   *zap.Logger
}

func NewEnhanceHandler(bot Sender, promptUC PromptUsecase, logger *zap.Logger) *EnhanceHandler {
	return &EnhanceHandler{
		BaseHandler: BaseHandler{
			routes:        []string{RouteText},
			messageSender: NewMessageSender(bot, logger),
		},
		bot:      bot,
		promptUC: promptUC,
		logger:   logger,
	}
}

func (h *EnhanceHandler) Handle(ctx context.Context, msg *Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		h.sendMessage(msg.ChatID, render.ErrEmptyPrompt)
		return nil
	}

	typing := NewTypingNotifier(h.bot, msg.ChatID, h.logger)
	typing.Start(ctx)
	resp, err := h.promptUC.Enhance(ctx, &entity.EnhancePromptRequest{RawPrompt: text})
	typing.Stop()

	if err != nil {
		reportError(ctx, h.messageSender, msg.ChatID, err)
		return nil
	}

	ctxzap.Info(ctx, "prompt enhanced for chat",
		zap.Int64("chat_id", msg.ChatID),
		zap.String("prompt_id", resp.ID),
	)

	reply, fits := render.EnhancedPrompt(resp.EnhancedPrompt)
	if fits {
		return h.messageSender.Send(msg.ChatID, reply, tgbotapi.ModeHTML)
	}

	return h.messageSender.SendDocument(
		msg.ChatID,
		fmt.Sprintf("prompt-%s.json", resp.ID),
		[]byte(render.PrettyJSON(resp.EnhancedPrompt)),
		render.MsgTooLongCaption,
	)
}
