package handlers

import (
	"context"

	"github.com/futig/prompt-enhancer/internal/telegram/render"
	"go.uber.org/zap"
)

// StartHandler greets the user and explains how to use the bot
type StartHandler struct {
	BaseHandler
}

func NewStartHandler(bot Sender, logger *zap.Logger) *StartHandler {
	return &StartHandler{
		BaseHandler: BaseHandler{
			routes:        []string{RouteStart, RouteHelp},
			messageSender: NewMessageSender(bot, logger),
		},
	}
}

func (h *StartHandler) Handle(_ context.Context, msg *Message) error {
	return h.messageSender.Send(msg.ChatID, render.MsgWelcome, "")
}
