package model

import (
	"fmt"

	"github.com/DjordjeVuckovic/embed-service/pkg/config/env"
)

const (
	DefaultModel      = "bert-base-chinese"
	DefaultBackend    = BackendTEI
	DefaultRuntimeURL = "http://localhost:8080"
	DefaultCacheDir   = "./models"
	DefaultMaxTokens  = 512
)

const (
	BackendTEI   = "tei"
	BackendHugot = "hugot"
)

type Config struct {
	Name       string
	Backend    string
	RuntimeURL string
	CacheDir   string
	MaxTokens  int
	// OutputName selects the hugot model output, empty means the first.
	OutputName string
}

func LoadConfigFromEnv() (*Config, error) {
	maxTokens, err := env.Int("MODEL_MAX_TOKENS", DefaultMaxTokens)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Name:       env.String(DefaultModel, "MODEL_NAME", "BERT_MODEL_NAME"),
		Backend:    env.String(DefaultBackend, "MODEL_BACKEND"),
		RuntimeURL: env.String(DefaultRuntimeURL, "MODEL_RUNTIME_URL"),
		CacheDir:   env.String(DefaultCacheDir, "MODEL_CACHE_DIR"),
		MaxTokens:  maxTokens,
		OutputName: env.String("", "MODEL_OUTPUT_NAME"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("model name must not be empty")
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("MODEL_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	switch c.Backend {
	case BackendTEI:
		if c.RuntimeURL == "" {
			return fmt.Errorf("MODEL_RUNTIME_URL is required for the %s backend", BackendTEI)
		}
	case BackendHugot:
		if c.CacheDir == "" {
			return fmt.Errorf("MODEL_CACHE_DIR is required for the %s backend", BackendHugot)
		}
	default:
		return fmt.Errorf("unknown MODEL_BACKEND %q, expected one of %v", c.Backend, []string{BackendTEI, BackendHugot})
	}
	return nil
}
