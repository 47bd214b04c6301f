package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Setenv("MODEL_NAME", "")
	t.Setenv("BERT_MODEL_NAME", "bert-base-uncased")

	assert.Equal(t, "bert-base-uncased", String("bert-base-chinese", "MODEL_NAME", "BERT_MODEL_NAME"))

	t.Setenv("MODEL_NAME", "  intfloat/e5-base ")
	assert.Equal(t, "intfloat/e5-base", String("bert-base-chinese", "MODEL_NAME", "BERT_MODEL_NAME"))

	t.Setenv("MODEL_NAME", "")
	t.Setenv("BERT_MODEL_NAME", "")
	assert.Equal(t, "bert-base-chinese", String("bert-base-chinese", "MODEL_NAME", "BERT_MODEL_NAME"))
}

func TestInt(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_INFERENCES", "")
	n, err := Int("MAX_CONCURRENT_INFERENCES", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	t.Setenv("MAX_CONCURRENT_INFERENCES", "16")
	n, err = Int("MAX_CONCURRENT_INFERENCES", 4)
	require.NoError(t, err)
	assert.Equal(t, 16, n)

	t.Setenv("MAX_CONCURRENT_INFERENCES", "many")
	_, err = Int("MAX_CONCURRENT_INFERENCES", 4)
	assert.Error(t, err)
}

func TestBool(t *testing.T) {
	t.Setenv("USE_HTTP2", "true")
	assert.True(t, Bool("USE_HTTP2"))

	t.Setenv("USE_HTTP2", "nope")
	assert.False(t, Bool("USE_HTTP2"))
}

func TestList(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " http://a.local, ,http://b.local ")
	assert.Equal(t, []string{"http://a.local", "http://b.local"}, List("CORS_ORIGINS"))

	t.Setenv("CORS_ORIGINS", "")
	assert.Nil(t, List("CORS_ORIGINS"))
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("EMBED_TEST_VALUE=from-file\n"), 0o644))

	t.Setenv("ENV_PATH", path)
	require.NoError(t, os.Unsetenv("EMBED_TEST_VALUE"))
	t.Cleanup(func() { _ = os.Unsetenv("EMBED_TEST_VALUE") })

	require.NoError(t, LoadDotEnv(""))
	assert.Equal(t, "from-file", os.Getenv("EMBED_TEST_VALUE"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	t.Setenv("ENV_PATH", filepath.Join(t.TempDir(), "missing.env"))

	assert.NoError(t, LoadDotEnv("production"))
	assert.Error(t, LoadDotEnv("local"))
}
