package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/futig/prompt-enhancer/internal/entity"
	pkgRetry "github.com/futig/prompt-enhancer/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Store drivers
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreNone     = "none"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr     string        `env:"SERVER_ADDR" envDefault:":5000"`
	MaxRequestSize int64         `env:"MAX_REQUEST_SIZE" envDefault:"65536"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`

	// Store configuration
	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`

	// Database configuration (postgres store only)
	DatabaseURL         string        `env:"DATABASE_URL"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"1"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configuration
	LLMConnectorCfg LLMConnectorConfig `envPrefix:"LLM_"`

	// Enhancement configuration
	EnhancerCfg EnhancerConfig `envPrefix:"ENHANCER_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Export configuration
	UnidocLicenseKey string `env:"UNIDOC_LICENSE_KEY"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Telegram bot configuration (telegram-bot binary only)
	TelegramCfg TelegramConfig `envPrefix:"TELEGRAM_"`

	// Instructions per variant (loaded from YAML)
	Instructions map[entity.Variant]entity.Instruction

	// Environment (set from flag, not from env var)
	Environment string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken        string `env:"BOT_TOKEN"`
	UpdateTimeout   int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	HistorySize     int    `env:"HISTORY_SIZE" envDefault:"5"`
	ShutdownTimeout int    `env:"SHUTDOWN_TIMEOUT" envDefault:"30"` // seconds
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	CompletionsEndpoint string               `env:"COMPLETIONS_ENDPOINT" envDefault:"/openai/v1/chat/completions"`
	Model               string               `env:"MODEL" envDefault:"llama-3.3-70b-versatile"`
	Temperature         float64              `env:"TEMPERATURE" envDefault:"0.6"`
	MaxTokens           int                  `env:"MAX_TOKENS" envDefault:"2048"`
	Breaker             BreakerConfig        `envPrefix:"BREAKER_"`
	Retry               pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

// BreakerConfig configures the circuit breaker around the LLM API
type BreakerConfig struct {
	MaxFailures uint32        `env:"MAX_FAILURES" envDefault:"5"`
	OpenTimeout time.Duration `env:"OPEN_TIMEOUT" envDefault:"30s"`
	Interval    time.Duration `env:"INTERVAL" envDefault:"1m"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"60s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"55s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL" envDefault:"https://api.groq.com"`
}

// EnhancerConfig holds prompt enhancement settings
type EnhancerConfig struct {
	DefaultVariant   entity.Variant `env:"DEFAULT_VARIANT" envDefault:"json"`
	InstructionsFile string         `env:"INSTRUCTIONS_FILE"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Missing env file is fine when variables are set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	cfg.Environment = *envFlag

	return cfg, nil
}

// Parse reads the configuration from the process environment without
// touching flags or env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// The Groq variable name is accepted for compatibility.
	if cfg.LLMConnectorCfg.Token == "" {
		cfg.LLMConnectorCfg.Token = os.Getenv("GROQ_API_KEY")
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	instructions, err := LoadInstructions(cfg.EnhancerCfg.InstructionsFile)
	if err != nil {
		return nil, fmt.Errorf("load instructions: %w", err)
	}
	cfg.Instructions = instructions

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errors []string

	switch cfg.StoreDriver {
	case StoreMemory, StoreNone:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		errors = append(errors, fmt.Sprintf("STORE_DRIVER must be one of memory, postgres, none, got %q", cfg.StoreDriver))
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errors = append(errors, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errors = append(errors, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	llm := cfg.LLMConnectorCfg
	if llm.Temperature < 0 || llm.Temperature > 2 {
		errors = append(errors, fmt.Sprintf("LLM_TEMPERATURE must be between 0 and 2, got %v", llm.Temperature))
	}

	if llm.MaxTokens < 1 {
		errors = append(errors, fmt.Sprintf("LLM_MAX_TOKENS must be positive, got %d", llm.MaxTokens))
	}

	if llm.Retry.Attempts < 1 {
		errors = append(errors, fmt.Sprintf("LLM_RETRY_ATTEMPTS must be at least 1, got %d", llm.Retry.Attempts))
	}

	if err := cfg.EnhancerCfg.DefaultVariant.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("ENHANCER_DEFAULT_VARIANT: %v", err))
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout))
	}

	if cfg.MaxRequestSize < 1 {
		errors = append(errors, fmt.Sprintf("MAX_REQUEST_SIZE must be positive, got %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
