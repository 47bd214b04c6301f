package httpjson

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) url.URL {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/echo", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"got": in["text"]})
	})
	mux.HandleFunc("GET /api/created", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"got":"created"}`))
	})
	mux.HandleFunc("GET /api/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"bad input"}`))
	})
	mux.HandleFunc("GET /api/garbage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	base, err := url.Parse(srv.URL + "/api")
	require.NoError(t, err)
	return *base
}

func failOnError(t *testing.T) ErrorFunc {
	return func(statusCode int, body []byte) error {
		t.Errorf("unexpected status %d: %s", statusCode, body)
		return errors.New("unexpected status")
	}
}

func TestDo(t *testing.T) {
	base := newServer(t)
	ctx := context.Background()

	var out map[string]string
	require.NoError(t, Do(ctx, http.DefaultClient, base, http.MethodPost, "/echo", map[string]string{"text": "合同"}, &out, failOnError(t)))
	assert.Equal(t, "合同", out["got"])

	require.NoError(t, Do(ctx, http.DefaultClient, base, http.MethodGet, "/created", nil, &out, failOnError(t)))
	assert.Equal(t, "created", out["got"])
}

func TestDo_Errors(t *testing.T) {
	base := newServer(t)
	ctx := context.Background()

	var status int
	var body string
	err := Do(ctx, http.DefaultClient, base, http.MethodGet, "/fail", nil, &struct{}{}, func(statusCode int, b []byte) error {
		status, body = statusCode, string(b)
		return errors.New("mapped")
	})
	assert.EqualError(t, err, "mapped")
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.JSONEq(t, `{"error":"bad input"}`, body)

	err = Do(ctx, http.DefaultClient, base, http.MethodGet, "/garbage", nil, &struct{}{}, failOnError(t))
	assert.ErrorContains(t, err, "unmarshal response")
}
