package handlers

import (
	"context"
)

// Routes. Commands are routed by name, everything else is plain text.
const (
	RouteText    = "TEXT"
	RouteStart   = "start"
	RouteHelp    = "help"
	RouteHistory = "history"
)

// Message represents a normalized Telegram message
type Message struct {
	ChatID    int64
	UserID    int64
	MessageID int
	Text      string
}

// Handler processes messages of one route
type Handler interface {
	Handle(ctx context.Context, msg *Message) error

	// Routes returns the routes this handler serves
	Routes() []string
}

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	routes        []string
	messageSender *MessageSender
}

// Routes implements Handler
func (h *BaseHandler) Routes() []string {
	return h.routes
}

func (h *BaseHandler) sendMessage(chatID int64, text string) {
	if h.messageSender != nil {
		_ = h.messageSender.Send(chatID, text, "")
	}
}
