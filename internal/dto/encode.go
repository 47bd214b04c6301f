package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/DjordjeVuckovic/embed-service/internal/apperr"
)

const (
	TextsField = "texts"
	TextField  = "text"
)

// EncodeRequest is the body of POST /encode. Non-string entries are allowed
// and ignored.
type EncodeRequest struct {
	Texts []any `json:"texts" swaggertype:"array,string"`
}

// SingleRequest is the body of POST /vectorize-single.
type SingleRequest struct {
	Text any `json:"text" swaggertype:"string"`
}

type SingleResponse struct {
	Vector    []float32 `json:"vector"`
	Dimension int       `json:"dimension"`
}

type HealthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

// ParseEncodeRequest validates a batch body and returns the values of its
// texts array.
func ParseEncodeRequest(body []byte) ([]any, error) {
	raw, err := requireField(body, TextsField)
	if err != nil {
		return nil, err
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || len(elems) == 0 {
		return nil, apperr.NewValidation("'texts' must be a non-empty array")
	}

	items := make([]any, len(elems))
	for i, elem := range elems {
		items[i] = decodeItem(elem)
	}
	return items, nil
}

// ParseSingleRequest returns the text value as a one-element batch.
func ParseSingleRequest(body []byte) ([]any, error) {
	raw, err := requireField(body, TextField)
	if err != nil {
		return nil, err
	}

	return []any{decodeItem(raw)}, nil
}

// decodeItem returns a JSON string as a Go string. Any other value stays
// raw, so numbers outside the float64 range are skipped like other
// non-strings instead of failing the request.
func decodeItem(raw json.RawMessage) any {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return raw
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return raw
	}
	return s
}

// RetainStrings keeps the string items in order and reports how many others
// were dropped.
func RetainStrings(items []any) ([]string, int) {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			texts = append(texts, s)
		}
	}
	return texts, len(items) - len(texts)
}

func requireField(body []byte, field string) (json.RawMessage, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, apperr.NewValidation(malformed(field))
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, apperr.NewValidation(malformed(field))
	}

	raw, ok := obj[field]
	if !ok {
		return nil, apperr.NewValidation(malformed(field))
	}
	return raw, nil
}

func malformed(field string) string {
	return fmt.Sprintf("malformed request: '%s' field is required", field)
}
