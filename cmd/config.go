package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/recipe-genie/server/internal/agent/model"
	pkgredis "github.com/recipe-genie/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis  pkgredis.Config
	Server ServerConfig

	// LLM provider
	GeminiAPIKey    string `envconfig:"GEMINI_API_KEY"`
	GeminiBaseURL   string `envconfig:"GEMINI_BASE_URL"`
	AnthropicAPIKey string `envconfig:"ANTHROPIC_API_KEY"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Conversation model.ConversationConfig

	// External lookups
	Recipes   model.RecipeAPIConfig
	Search    model.SearchAPIConfig
	Nutrition model.NutritionAPIConfig
	Lookup    model.LookupConfig
}

type ServerConfig struct {
	Port int    `envconfig:"HTTP_PORT" default:"8080"`
	Mode string `envconfig:"GIN_MODE" default:"release"`
}

// loadConfig reads envFile (a missing file is not an error) and binds the environment.
func loadConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	return &cfg, nil
}
