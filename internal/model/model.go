package model

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// warmupText is encoded once at load time to discover the embedding dimension.
const warmupText = "warmup"

// Encoder runs the model runtime for one text: tokenization with truncation,
// the forward pass and extraction of the leading classification token from
// the final hidden layer.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Close() error
}

type Info struct {
	Model     string `json:"model"`
	Backend   string `json:"backend"`
	Dimension int    `json:"dimension"`
	MaxTokens int    `json:"max_tokens"`
}

// Handle is the loaded model. It is immutable once returned by Load or New
// and safe for concurrent use as long as the Encoder is.
type Handle struct {
	info    Info
	encoder Encoder
}

// Load builds the configured runtime backend and warms it up. It must run
// once, before the service starts accepting requests.
func Load(ctx context.Context, cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Info("Loading model", "model", cfg.Name, "backend", cfg.Backend)
	start := time.Now()

	var (
		enc Encoder
		err error
	)
	switch cfg.Backend {
	case BackendTEI:
		enc, err = NewTEIEncoder(ctx, cfg.RuntimeURL, cfg.Name, cfg.MaxTokens)
	case BackendHugot:
		enc, err = NewHugotEncoder(cfg.Name, cfg.CacheDir, cfg.OutputName, cfg.MaxTokens)
	}
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", cfg.Name, err)
	}

	h, err := New(ctx, cfg.Name, cfg.Backend, cfg.MaxTokens, enc)
	if err != nil {
		return nil, errors.Join(err, enc.Close())
	}

	slog.Info("Model loaded", "model", cfg.Name, "dimension", h.info.Dimension, "took", time.Since(start))
	return h, nil
}

// New wraps an already constructed encoder and warms it up to learn its dimension.
func New(ctx context.Context, name, backend string, maxTokens int, enc Encoder) (*Handle, error) {
	vec, err := enc.Encode(ctx, warmupText)
	if err != nil {
		return nil, fmt.Errorf("warm up model %s: %w", name, err)
	}
	if len(vec) == 0 {
		return nil, fmt.Errorf("warm up model %s: runtime returned an empty vector", name)
	}

	return &Handle{
		info: Info{
			Model:     name,
			Backend:   backend,
			Dimension: len(vec),
			MaxTokens: maxTokens,
		},
		encoder: enc,
	}, nil
}

func (h *Handle) Info() Info {
	return h.info
}

func (h *Handle) Encode(ctx context.Context, text string) ([]float32, error) {
	vec, err := h.encoder.Encode(ctx, text)
	if err != nil {
		return nil, err
	}

	if len(vec) != h.info.Dimension {
		return nil, fmt.Errorf("runtime returned a %d-dimensional vector, expected %d", len(vec), h.info.Dimension)
	}
	for i, v := range vec {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return nil, fmt.Errorf("runtime returned a non-finite value at position %d", i)
		}
	}

	return vec, nil
}

func (h *Handle) Close() error {
	return h.encoder.Close()
}
