package model

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTEI struct {
	modelID  string
	pooling  string
	maxInput int
	lastReq  teiEmbedRequest
}

func (f *fakeTEI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /info", func(w http.ResponseWriter, r *http.Request) {
		maxInput := f.maxInput
		if maxInput == 0 {
			maxInput = 512
		}
		_, _ = fmt.Fprintf(w, `{"model_id":%q,"max_input_length":%d,"model_type":{"embedding":{"pooling":%q}}}`, f.modelID, maxInput, f.pooling)
	})
	mux.HandleFunc("POST /embed", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.lastReq))
		if len(f.lastReq.Inputs) == 1 && f.lastReq.Inputs[0] == "" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"error":"` + "`inputs` cannot be empty" + `","error_type":"Validation"}`))
			return
		}
		_, _ = w.Write([]byte(`[[0.5,-0.25,1.0]]`))
	})
	return mux
}

func TestTEIEncoder(t *testing.T) {
	fake := &fakeTEI{modelID: "bert-base-chinese", pooling: "cls"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	ctx := context.Background()
	enc, err := NewTEIEncoder(ctx, srv.URL, "bert-base-chinese", 512)
	require.NoError(t, err)
	defer enc.Close()

	vec, err := enc.Encode(ctx, "合同违约责任")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25, 1.0}, vec)
	assert.Equal(t, []string{"合同违约责任"}, fake.lastReq.Inputs)
	assert.True(t, fake.lastReq.Truncate)
	assert.False(t, fake.lastReq.Normalize)

	_, err = enc.Encode(ctx, "")
	assert.ErrorContains(t, err, "cannot be empty")
}

func TestTEIEncoder_ModelMismatch(t *testing.T) {
	fake := &fakeTEI{modelID: "BAAI/bge-base-en-v1.5", pooling: "cls"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	_, err := NewTEIEncoder(context.Background(), srv.URL, "bert-base-chinese", 512)
	assert.ErrorContains(t, err, "BAAI/bge-base-en-v1.5")
}

func TestTEIEncoder_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewTEIEncoder(context.Background(), url, "bert-base-chinese", 512)
	assert.ErrorContains(t, err, "fetch runtime info")
}

func TestLoad_TEI(t *testing.T) {
	fake := &fakeTEI{modelID: "bert-base-chinese", pooling: "cls"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	h, err := Load(context.Background(), Config{
		Name:       "bert-base-chinese",
		Backend:    BackendTEI,
		RuntimeURL: srv.URL,
		MaxTokens:  512,
	})
	require.NoError(t, err)
	defer h.Close()

	assert.Equal(t, 3, h.Info().Dimension)
	assert.Equal(t, []string{warmupText}, fake.lastReq.Inputs)
}

func TestTEIEncoder_RejectsNonClsPooling(t *testing.T) {
	for _, pooling := range []string{"mean", "splade", "last_token"} {
		t.Run(pooling, func(t *testing.T) {
			fake := &fakeTEI{modelID: "bert-base-chinese", pooling: pooling}
			srv := httptest.NewServer(fake.handler(t))
			defer srv.Close()

			_, err := Load(context.Background(), Config{
				Name:       "bert-base-chinese",
				Backend:    BackendTEI,
				RuntimeURL: srv.URL,
				MaxTokens:  512,
			})
			assert.ErrorContains(t, err, "--pooling cls")
			assert.Empty(t, fake.lastReq.Inputs)
		})
	}
}

func TestTEIEncoder_RejectsInputLengthMismatch(t *testing.T) {
	fake := &fakeTEI{modelID: "bert-base-chinese", pooling: "cls", maxInput: 512}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	_, err := Load(context.Background(), Config{
		Name:       "bert-base-chinese",
		Backend:    BackendTEI,
		RuntimeURL: srv.URL,
		MaxTokens:  8,
	})
	assert.ErrorContains(t, err, "MODEL_MAX_TOKENS is 8")

	fake.maxInput = 8
	h, err := Load(context.Background(), Config{
		Name:       "bert-base-chinese",
		Backend:    BackendTEI,
		RuntimeURL: srv.URL,
		MaxTokens:  8,
	})
	require.NoError(t, err)
	defer h.Close()
	assert.Equal(t, 8, h.Info().MaxTokens)
}
