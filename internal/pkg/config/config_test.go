package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, "sqlite:///data/kisan_netra.db", cfg.DBURL)
	assert.Equal(t, "cpu", cfg.ModelDevice)
	assert.Equal(t, 3, cfg.ModelTopK)
	assert.Equal(t, 10*time.Second, cfg.ModelTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Empty(t, cfg.ModelURL)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/kisan")
	t.Setenv("DEVICE", "cuda:0")
	t.Setenv("MODEL_URL", "http://model:8500/v1/predict")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, "postgres://u:p@localhost:5432/kisan", cfg.DBURL)
	assert.Equal(t, "cuda:0", cfg.ModelDevice)
	assert.Equal(t, "http://model:8500/v1/predict", cfg.ModelURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: 8100\nmodel:\n  topk: 5\nlog:\n  level: debug\n"), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 8100, cfg.Port)
	assert.Equal(t, 5, cfg.ModelTopK)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("port", func(t *testing.T) {
		t.Setenv("PORT", "70000")
		_, err := Load(viper.New(), "")
		assert.Error(t, err)
	})

	t.Run("topk", func(t *testing.T) {
		t.Setenv("MODEL_TOPK", "0")
		_, err := Load(viper.New(), "")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}
