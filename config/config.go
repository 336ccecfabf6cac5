package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string `env:"DISCORD_TOKEN"`
	Prefix       string `env:"PREFIX" envDefault:"!"`

	// Database configuration
	DatabaseURL string `env:"DATABASE_URL"`

	// Expiry sweep settings
	SweepIntervalSeconds   int `env:"SWEEP_INTERVAL_SECONDS" envDefault:"30"`
	FinalizeTimeoutSeconds int `env:"FINALIZE_TIMEOUT_SECONDS" envDefault:"15"`

	// Ticket settings
	TicketCategoryName string `env:"TICKET_CATEGORY_NAME" envDefault:"Tickets"`

	// Environment
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from a .env file (if present) and the environment
func load() (*Config, error) {
	// A missing .env file is fine; production sets variables directly
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
