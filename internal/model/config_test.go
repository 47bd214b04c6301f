package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearModelEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"MODEL_NAME", "BERT_MODEL_NAME", "MODEL_BACKEND", "MODEL_RUNTIME_URL", "MODEL_CACHE_DIR", "MODEL_MAX_TOKENS", "MODEL_OUTPUT_NAME"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigFromEnv_Defaults(t *testing.T) {
	clearModelEnv(t)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Name:       DefaultModel,
		Backend:    BackendTEI,
		RuntimeURL: DefaultRuntimeURL,
		CacheDir:   DefaultCacheDir,
		MaxTokens:  512,
	}, cfg)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("BERT_MODEL_NAME", "hfl/chinese-roberta-wwm-ext")
	t.Setenv("MODEL_BACKEND", "hugot")
	t.Setenv("MODEL_CACHE_DIR", "/var/cache/models")
	t.Setenv("MODEL_MAX_TOKENS", "256")
	t.Setenv("MODEL_OUTPUT_NAME", "cls_embedding")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "hfl/chinese-roberta-wwm-ext", cfg.Name)
	assert.Equal(t, BackendHugot, cfg.Backend)
	assert.Equal(t, "/var/cache/models", cfg.CacheDir)
	assert.Equal(t, 256, cfg.MaxTokens)
	assert.Equal(t, "cls_embedding", cfg.OutputName)
}

func TestLoadConfigFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"MODEL_BACKEND": "torch"}},
		{"non numeric max tokens", map[string]string{"MODEL_MAX_TOKENS": "lots"}},
		{"zero max tokens", map[string]string{"MODEL_MAX_TOKENS": "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearModelEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfigFromEnv()
			assert.Error(t, err)
		})
	}
}
