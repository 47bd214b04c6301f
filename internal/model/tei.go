package model

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/DjordjeVuckovic/embed-service/pkg/httpjson"
)

const defaultTimeout = 60 * time.Second

type TEIOption func(*TEIEncoder)

// TEIEncoder delegates inference to a text-embeddings-inference server that
// serves exactly one model with CLS pooling and the configured input length.
type TEIEncoder struct {
	base url.URL
	http *http.Client
}

type teiInfo struct {
	ModelID        string `json:"model_id"`
	MaxInputLength int    `json:"max_input_length"`
	ModelType      struct {
		Embedding *struct {
			Pooling string `json:"pooling"`
		} `json:"embedding,omitempty"`
	} `json:"model_type"`
}

type teiEmbedRequest struct {
	Inputs    []string `json:"inputs"`
	Truncate  bool     `json:"truncate"`
	Normalize bool     `json:"normalize"`
}

type teiError struct {
	Error     string `json:"error"`
	ErrorType string `json:"error_type"`
}

func WithHttpClient(httpClient *http.Client) TEIOption {
	return func(e *TEIEncoder) {
		e.http = httpClient
	}
}

// NewTEIEncoder connects to the runtime and checks that it serves model.
func NewTEIEncoder(ctx context.Context, baseUrl, model string, maxTokens int, opts ...TEIOption) (*TEIEncoder, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return nil, fmt.Errorf("parse runtime url: %w", err)
	}

	enc := &TEIEncoder{
		base: *base,
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(enc)
	}

	var info teiInfo
	if err := enc.do(ctx, http.MethodGet, "/info", nil, &info); err != nil {
		return nil, fmt.Errorf("fetch runtime info: %w", err)
	}

	if info.ModelID != model {
		return nil, fmt.Errorf("runtime serves model %q, expected %q", info.ModelID, model)
	}
	if info.ModelType.Embedding == nil {
		return nil, fmt.Errorf("runtime model %q is not an embedding model", info.ModelID)
	}
	if p := info.ModelType.Embedding.Pooling; p != "cls" {
		return nil, fmt.Errorf("runtime pools with %q, start it with --pooling cls to serve classification-token embeddings", p)
	}
	if info.MaxInputLength != maxTokens {
		return nil, fmt.Errorf("runtime truncates at %d tokens but MODEL_MAX_TOKENS is %d, start it with --max-input-length %d",
			info.MaxInputLength, maxTokens, maxTokens)
	}

	slog.Info("Connected to inference runtime", "url", base.String(), "model", info.ModelID)
	return enc, nil
}

func (e *TEIEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	req := teiEmbedRequest{
		Inputs:    []string{text},
		Truncate:  true,
		Normalize: false,
	}

	var resp [][]float32
	if err := e.do(ctx, http.MethodPost, "/embed", req, &resp); err != nil {
		return nil, err
	}
	if len(resp) != 1 {
		return nil, fmt.Errorf("expected 1 embedding, got %d", len(resp))
	}

	return resp[0], nil
}

func (e *TEIEncoder) Close() error {
	e.http.CloseIdleConnections()
	return nil
}

func (e *TEIEncoder) do(ctx context.Context, method, path string, reqData, respData any) error {
	return httpjson.Do(ctx, e.http, e.base, method, path, reqData, respData, func(statusCode int, body []byte) error {
		var te teiError
		if json.Unmarshal(body, &te) == nil && te.Error != "" {
			return fmt.Errorf("runtime returned status %d: %s", statusCode, te.Error)
		}
		return fmt.Errorf("unexpected status code: %d, body: %s", statusCode, string(body))
	})
}
