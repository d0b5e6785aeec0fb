package config

import (
	"errors"
	"os"
)

const (
	defaultTelegramAPIBase = "https://api.telegram.org"
	defaultOpenAIModel     = "gpt-3.5-turbo"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// BotToken authenticates outbound calls to the Telegram Bot API.
	BotToken string
	// TelegramAPIBase is overridable for proxies and tests.
	TelegramAPIBase string

	OpenAIAPIKey string
	OpenAIModel  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		BotToken:        getEnv("BOT_TOKEN", ""),
		TelegramAPIBase: getEnv("TELEGRAM_API_BASE", defaultTelegramAPIBase),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:     getEnv("OPENAI_MODEL", defaultOpenAIModel),
	}
}

// Validate reports the first missing required secret. Both the bot token and
// the OpenAI key are mandatory; starting without either is a fatal condition.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("config: BOT_TOKEN environment variable is not set")
	}
	if c.OpenAIAPIKey == "" {
		return errors.New("config: OPENAI_API_KEY environment variable is not set")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
