package es

import (
	"context"
	"strings"
	"testing"

	pkgtesting "github.com/DjordjeVuckovic/embed-service/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader_Validation(t *testing.T) {
	_, err := NewLoader(ClientConfig{Addresses: []string{DefaultAddress}})
	assert.Error(t, err)

	_, err = NewLoader(ClientConfig{IndexName: "t_regulation"})
	assert.Error(t, err)
}

func TestLoadClientConfigFromEnv(t *testing.T) {
	t.Setenv("ES_ADDRESSES", "")
	t.Setenv("ES_USERNAME", "")
	t.Setenv("ES_PASSWORD", "")

	cfg := LoadClientConfigFromEnv("t_regulation")
	assert.Equal(t, []string{DefaultAddress}, cfg.Addresses)
	assert.Equal(t, "t_regulation", cfg.IndexName)

	t.Setenv("ES_ADDRESSES", "http://es1:9200,http://es2:9200")
	t.Setenv("ES_USERNAME", "elastic")
	cfg = LoadClientConfigFromEnv("docs")
	assert.Equal(t, []string{"http://es1:9200", "http://es2:9200"}, cfg.Addresses)
	assert.Equal(t, "elastic", cfg.Username)
}

func TestLoader_Load(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping elasticsearch container test in short mode")
	}

	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)

	loader, err := NewLoader(ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "t_regulation",
	})
	require.NoError(t, err)

	input := `[
		{"title": "合同法", "article": 1},
		{"title": "劳动法", "article": 2},
		{"title": "公司法", "article": 3}
	]`

	stats, err := loader.Load(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Stats{Successful: 3, Failed: 0, Total: 3}, stats)

	count, err := loader.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestLoader_LoadRejectsNonArray(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping elasticsearch container test in short mode")
	}

	ctx := context.Background()
	container := pkgtesting.NewESContainer(ctx, t)

	loader, err := NewLoader(ClientConfig{
		Addresses: []string{container.Address},
		IndexName: "t_bad_input",
	})
	require.NoError(t, err)

	_, err = loader.Load(ctx, strings.NewReader(`{"not":"an array"}`))
	assert.Error(t, err)
}
