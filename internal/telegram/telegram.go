package telegram

import (
	"context"
	"fmt"

	"github.com/futig/prompt-enhancer/internal/config"
	"github.com/futig/prompt-enhancer/internal/telegram/bot"
	"github.com/futig/prompt-enhancer/internal/telegram/handlers"
	"go.uber.org/zap"
)

// Bot is the main telegram bot interface
type Bot interface {
	Start(ctx context.Context) error
	Stop() error
}

// NewBot initializes the telegram bot with all dependencies
func NewBot(
	cfg *config.TelegramConfig,
	promptUC handlers.PromptUsecase,
	logger *zap.Logger,
) (Bot, error) {
	b, err := bot.New(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	api := b.API()
	b.RegisterHandler(handlers.NewStartHandler(api, logger))
	b.RegisterHandler(handlers.NewEnhanceHandler(api, promptUC, logger))
	b.RegisterHandler(handlers.NewHistoryHandler(api, promptUC, cfg.HistorySize, logger))

	logger.Info("telegram bot initialized successfully")

	return b, nil
}
