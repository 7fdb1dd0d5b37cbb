package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"

	"github.com/Rathna12Thyagu/stake-tracker/internal/portfolio"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8501"`

	Symbol       string        `env:"SYMBOL" default:"BELRISE.NS"`
	QuoteBaseURL string        `env:"QUOTE_BASE_URL" default:"https://query1.finance.yahoo.com/v8/finance/chart"`
	PollInterval time.Duration `env:"POLL_INTERVAL" default:"3s"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" default:"5s"`

	// ReconnectDelay is handed to the dashboard page; the browser waits this
	// long after a close event before dialing the WebSocket again.
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY" default:"5s"`

	MaxConnections int `env:"MAX_CONNECTIONS" default:"64"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	TotalShares  int     `env:"TOTAL_SHARES" default:"166"`
	AvgPrice     float64 `env:"AVG_PRICE" default:"90"`
	Stakeholders string  `env:"STAKEHOLDERS" default:"Rathna:7940,Esvar:3000,Hari:4000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Symbol == "" {
		return errors.New("SYMBOL is required")
	}
	if cfg.QuoteBaseURL == "" {
		return errors.New("QUOTE_BASE_URL is required")
	}
	if cfg.PollInterval <= 0 {
		return errors.New("POLL_INTERVAL must be positive")
	}
	if cfg.FetchTimeout <= 0 {
		return errors.New("FETCH_TIMEOUT must be positive")
	}
	if cfg.ReconnectDelay <= 0 {
		return errors.New("RECONNECT_DELAY must be positive")
	}
	if cfg.MaxConnections <= 0 {
		return errors.New("MAX_CONNECTIONS must be positive")
	}
	if cfg.TotalShares <= 0 {
		return errors.New("TOTAL_SHARES must be positive")
	}
	if cfg.AvgPrice <= 0 {
		return errors.New("AVG_PRICE must be positive")
	}

	if _, err := portfolio.ParseStakeholders(cfg.Stakeholders); err != nil {
		return fmt.Errorf("STAKEHOLDERS is invalid: %w", err)
	}

	return nil
}

// Book builds the portfolio book described by the configuration.
// Call only after Load has validated the stakeholder list.
func (c *Config) Book() portfolio.Book {
	stakeholders, _ := portfolio.ParseStakeholders(c.Stakeholders)
	return portfolio.NewBook(c.TotalShares, c.AvgPrice, stakeholders)
}
