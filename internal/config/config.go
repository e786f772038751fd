package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the process environment configuration. The application
// configuration document (models, prompts, policies) lives in a separate
// JSON file referenced by ConfigPath; see AppConfig.
type Config struct {
	// Core
	GeminiAPIKey string `env:"GEMINI_API_KEY,required"`
	ConfigPath   string `env:"CONFIG_PATH" envDefault:"config.json"`

	// Web front-end
	Port int `env:"PORT" envDefault:"8080"`

	// Telegram front-end; the bot is only started when a token is present.
	BotToken string `env:"BOT_TOKEN"`

	// Optional override for system_config.upload_path in the document.
	UploadPath string `env:"UPLOAD_PATH"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
