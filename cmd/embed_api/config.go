package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/DjordjeVuckovic/embed-service/internal/embedding"
	"github.com/DjordjeVuckovic/embed-service/internal/model"
	"github.com/DjordjeVuckovic/embed-service/pkg/config/env"
)

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type AppConfig struct {
	ENV string
}

type EmbedApiConfig struct {
	Model          *model.Config
	MaxConcurrency int
	LogLevel       slog.Level
}

func (as *AppConfig) Load() (*EmbedApiConfig, error) {
	modelCfg, err := model.LoadConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("model configuration: %w", err)
	}

	maxConcurrency, err := env.Int("MAX_CONCURRENT_INFERENCES", embedding.DefaultMaxConcurrency)
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(env.String("info", "LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	return &EmbedApiConfig{
		Model:          modelCfg,
		MaxConcurrency: maxConcurrency,
		LogLevel:       level,
	}, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", s, err)
	}
	return level, nil
}

func setupLogger(level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
