// Package embedclient talks to the embedding service over HTTP.
package embedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/DjordjeVuckovic/embed-service/pkg/httpjson"
)

const DefaultTimeout = 60 * time.Second

type Option func(*Client)

type Client struct {
	base url.URL
	http *http.Client
}

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("embedding service returned %d: %s", e.StatusCode, e.Message)
}

type Health struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

type SingleResult struct {
	Vector    []float32 `json:"vector"`
	Dimension int       `json:"dimension"`
}

func New(baseUrl string, opts ...Option) (*Client, error) {
	base, err := url.Parse(baseUrl)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseUrl)
	}

	c := &Client{
		base: *base,
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func WithHttpClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Encode returns one vector per text, in order.
func (c *Client) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts must not be empty")
	}

	var vectors [][]float32
	if err := c.do(ctx, http.MethodPost, "/encode", map[string][]string{"texts": texts}, &vectors); err != nil {
		return nil, err
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	return vectors, nil
}

func (c *Client) VectorizeSingle(ctx context.Context, text string) (*SingleResult, error) {
	var res SingleResult
	if err := c.do(ctx, http.MethodPost, "/vectorize-single", map[string]string{"text": text}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqData, respData any) error {
	return httpjson.Do(ctx, c.http, c.base, method, path, reqData, respData, func(statusCode int, body []byte) error {
		apiErr := &APIError{StatusCode: statusCode, Message: string(body)}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		}
		return apiErr
	})
}
