package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/futig/prompt-enhancer/internal/config"
	"github.com/futig/prompt-enhancer/internal/pkg/logger"
	"github.com/futig/prompt-enhancer/internal/telegram/handlers"
	"github.com/futig/prompt-enhancer/internal/telegram/middleware"
	"github.com/futig/prompt-enhancer/internal/telegram/render"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var ErrShutdownTimeout = errors.New("shutdown timeout exceeded")

// API is the part of the Bot API client the bot runs on
type API interface {
	handlers.Sender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot represents the Telegram bot
type Bot struct {
	api        API
	cfg        *config.TelegramConfig
	handlers   map[string]handlers.Handler
	sender     *handlers.MessageSender
	logger     *zap.Logger
	loggingMW  *middleware.LoggingMiddleware
	recoveryMW *middleware.RecoveryMiddleware
	stopChan   chan struct{}

	// mu orders wg.Add against Stop so no update starts once Wait begins
	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

// New authorizes against the Bot API with the configured token
func New(cfg *config.TelegramConfig, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create bot API: %w", err)
	}

	logger.Info("telegram bot authorized",
		zap.String("username", api.Self.UserName),
		zap.Int64("id", api.Self.ID),
	)

	return NewWithAPI(api, cfg, logger), nil
}

// NewWithAPI builds the bot on an already authorized client
func NewWithAPI(api API, cfg *config.TelegramConfig, logger *zap.Logger) *Bot {
	return &Bot{
		api:        api,
		cfg:        cfg,
		handlers:   make(map[string]handlers.Handler),
		sender:     handlers.NewMessageSender(api, logger),
		logger:     logger,
		loggingMW:  middleware.NewLoggingMiddleware(logger),
		recoveryMW: middleware.NewRecoveryMiddleware(logger, api),
		stopChan:   make(chan struct{}),
	}
}

// API exposes the Bot API client for handler construction
func (b *Bot) API() handlers.Sender {
	return b.api
}

// RegisterHandler routes every route of h to h
func (b *Bot) RegisterHandler(h handlers.Handler) {
	for _, route := range h.Routes() {
		b.handlers[route] = h
	}
}

// Start begins long polling; updates are processed until Stop or ctx is done
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("starting telegram bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.UpdateTimeout
	updates := b.api.GetUpdatesChan(u)

	ctx = ctxzap.ToContext(ctx, b.logger)
	go b.processUpdates(ctx, updates)

	b.logger.Info("telegram bot started successfully")
	return nil
}

// Stop stops polling and waits for in-flight updates
func (b *Bot) Stop() error {
	b.logger.Info("stopping telegram bot")

	b.mu.Lock()
	if !b.stopped {
		b.stopped = true
		close(b.stopChan)
		b.api.StopReceivingUpdates()
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	shutdownTimeout := time.Duration(b.cfg.ShutdownTimeout) * time.Second
	select {
	case <-done:
		b.logger.Info("all handlers completed gracefully")
	case <-time.After(shutdownTimeout):
		b.logger.Warn("shutdown timeout exceeded, some handlers may not have completed",
			zap.Duration("timeout", shutdownTimeout),
		)
		return ErrShutdownTimeout
	}

	b.logger.Info("telegram bot stopped successfully")
	return nil
}

func (b *Bot) processUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			ctxzap.Info(ctx, "context cancelled, stopping update processing")
			return
		case <-b.stopChan:
			ctxzap.Info(ctx, "stop signal received, stopping update processing")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if !b.track() {
				return
			}
			go func(u tgbotapi.Update) {
				defer b.wg.Done()
				b.handleUpdateWithMiddleware(ctx, u)
			}(update)
		}
	}
}

// track registers an in-flight update unless the bot is stopping
func (b *Bot) track() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return false
	}
	b.wg.Add(1)
	return true
}

func (b *Bot) handleUpdateWithMiddleware(ctx context.Context, update tgbotapi.Update) {
	b.loggingMW.Handle(update, func(u tgbotapi.Update) {
		b.recoveryMW.Handle(u, func(u2 tgbotapi.Update) {
			b.handleUpdate(ctx, u2)
		})
	})
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	message := update.Message
	if message == nil {
		return
	}

	route := handlers.RouteText
	if message.IsCommand() {
		route = message.Command()
	}

	ctx = logger.AddFields(ctx,
		zap.Int("update_id", update.UpdateID),
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("route", route),
	)

	handler, exists := b.handlers[route]
	if !exists {
		ctxzap.Debug(ctx, "no handler for route")
		_ = b.sender.Send(message.Chat.ID, render.ErrUnknownCommand, "")
		return
	}

	msg := &handlers.Message{
		ChatID:    message.Chat.ID,
		MessageID: message.MessageID,
		Text:      message.Text,
	}
	if message.From != nil {
		msg.UserID = message.From.ID
	}

	if err := handler.Handle(ctx, msg); err != nil {
		ctxzap.Error(ctx, "handler error", zap.Error(err))
	}
}
