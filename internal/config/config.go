package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Store string

const (
	StoreMemory   Store = "memory"
	StoreRedis    Store = "redis"
	StorePostgres Store = "postgres"
	StoreSQLite   Store = "sqlite"
)

type Config struct {
	LogLevel    string `env:"TYCOON_LOG_LEVEL" envDefault:"info"`
	Addr        string `env:"TYCOON_API_ADDR" envDefault:":8080"`
	Port        string `env:"PORT"`
	Store       Store  `env:"TYCOON_STORE" envDefault:"memory"`
	SaveKey     string `env:"TYCOON_SAVE_KEY" envDefault:"save:default"`
	BalanceFile string `env:"TYCOON_BALANCE_FILE"`
	Redis       Redis
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"TYCOON_SQLITE_PATH" envDefault:"tycoon.db"`
	Clock       Clock
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// Clock sets how often each simulation cadence fires. A zero duration disables it.
type Clock struct {
	Enabled      bool          `env:"TYCOON_CLOCK_ENABLED" envDefault:"false"`
	MonthEvery   time.Duration `env:"TYCOON_MONTH_EVERY" envDefault:"1m"`
	QuarterEvery time.Duration `env:"TYCOON_QUARTER_EVERY" envDefault:"3m"`
	PriceEvery   time.Duration `env:"TYCOON_PRICE_TICK_EVERY" envDefault:"10s"`
	RunOnce      bool          `env:"TYCOON_WORKER_RUN_ONCE" envDefault:"false"`
}

type CLIConfig struct {
	APIBaseURL string `env:"TYC_API_BASE_URL" envDefault:"http://localhost:8080"`
}

func Load() (Config, error) {
	_ = godotenv.Load(".env")

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Port != "" {
		cfg.Addr = cfg.Port
		if !strings.HasPrefix(cfg.Addr, ":") {
			cfg.Addr = ":" + cfg.Addr
		}
	}
	cfg.Store = Store(strings.ToLower(strings.TrimSpace(string(cfg.Store))))
	switch cfg.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	case StorePostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
	default:
		return cfg, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if cfg.Clock.MonthEvery < 0 || cfg.Clock.QuarterEvery < 0 || cfg.Clock.PriceEvery < 0 {
		return cfg, fmt.Errorf("clock intervals must not be negative")
	}
	return cfg, nil
}

func LoadCLI() CLIConfig {
	_ = godotenv.Load(".env")
	var cfg CLIConfig
	if err := env.Parse(&cfg); err != nil {
		cfg.APIBaseURL = "http://localhost:8080"
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return cfg
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warning", "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
