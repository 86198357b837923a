package builder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/futig/prompt-enhancer/internal/api"
	promptapi "github.com/futig/prompt-enhancer/internal/api/prompt"
	"github.com/futig/prompt-enhancer/internal/config"
	"github.com/futig/prompt-enhancer/internal/integration/llm"
	"github.com/futig/prompt-enhancer/internal/pkg/formatter"
	pkglogger "github.com/futig/prompt-enhancer/internal/pkg/logger"
	"github.com/futig/prompt-enhancer/internal/pkg/metrics"
	"github.com/futig/prompt-enhancer/internal/pkg/validator"
	"github.com/futig/prompt-enhancer/internal/repository"
	"github.com/futig/prompt-enhancer/internal/telegram"
	"github.com/futig/prompt-enhancer/internal/usecase/prompt"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/unidoc/unioffice/common/license"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := pkglogger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
		zap.String("store_driver", cfg.StoreDriver),
	)

	m := metrics.New()

	promptUC, db, err := buildPromptUsecase(ctx, cfg, m, logger)
	if err != nil {
		return nil, err
	}

	promptHandler := promptapi.NewHandler(promptUC, cfg.MaxRequestSize)
	logger.Info("API handlers initialized")

	router := api.SetupRouter(promptHandler, m, cfg.RequestTimeout, logger)
	logger.Info("HTTP router configured")

	// The write timeout has to outlive the model call
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	app := &App{
		server: server,
		logger: logger,
	}
	if db != nil {
		app.closers = append(app.closers, db.Close)
	}

	return app, nil
}

// BuildTelegramBot creates and initializes the Telegram bot
func BuildTelegramBot() (telegram.Bot, func(), *zap.Logger, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.TelegramCfg.BotToken == "" {
		return nil, nil, nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}

	logger, err := pkglogger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building Telegram bot",
		zap.String("environment", cfg.Environment),
		zap.String("store_driver", cfg.StoreDriver),
	)

	promptUC, db, err := buildPromptUsecase(ctx, cfg, metrics.New(), logger)
	if err != nil {
		return nil, nil, nil, err
	}

	cleanup := func() {
		if db != nil {
			db.Close()
		}
	}

	bot, err := telegram.NewBot(&cfg.TelegramCfg, promptUC, logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return bot, cleanup, logger, nil
}

// buildPromptUsecase wires the store, the model connector and the export
// formatters. The returned pool is nil unless the postgres store is used.
func buildPromptUsecase(
	ctx context.Context,
	cfg *config.Config,
	m *metrics.Metrics,
	logger *zap.Logger,
) (*prompt.PromptUsecase, *pgxpool.Pool, error) {
	promptRepo, db, err := setupStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var llmConnector prompt.LLMConnector
	if cfg.EnableMocks {
		logger.Info("Using mock connector for the LLM API")
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connector for the LLM API",
			zap.String("url", cfg.LLMConnectorCfg.Url),
			zap.String("model", cfg.LLMConnectorCfg.Model),
		)
		if cfg.LLMConnectorCfg.Token == "" {
			logger.Warn("LLM API key is not configured, enhancements will fail until LLM_TOKEN or GROQ_API_KEY is set")
		}
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, m, logger)
	}

	if cfg.UnidocLicenseKey != "" {
		if err := license.SetMeteredKey(cfg.UnidocLicenseKey); err != nil {
			logger.Warn("failed to apply unioffice license, DOCX export may be unavailable", zap.Error(err))
		}
	}

	promptUC := prompt.NewUsecase(
		prompt.Config{
			Model:          cfg.LLMConnectorCfg.Model,
			Temperature:    cfg.LLMConnectorCfg.Temperature,
			MaxTokens:      cfg.LLMConnectorCfg.MaxTokens,
			DefaultVariant: cfg.EnhancerCfg.DefaultVariant,
			Instructions:   cfg.Instructions,
		},
		promptRepo,
		llmConnector,
		validator.New(),
		formatter.NewFactory(),
		m,
		logger,
	)
	logger.Info("Use cases initialized",
		zap.String("default_variant", string(cfg.EnhancerCfg.DefaultVariant)),
	)

	return promptUC, db, nil
}

func setupStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.PromptRepository, *pgxpool.Pool, error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		store, db, err := openPostgresStore(ctx, cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("setup postgres store: %w", err)
		}
		return store, db, nil
	case config.StoreNone:
		logger.Info("Prompt records are not kept")
		return repository.NewPromptDiscard(), nil, nil
	default:
		logger.Info("Using in-memory prompt store")
		return repository.NewPromptMemory(), nil, nil
	}
}
