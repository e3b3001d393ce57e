package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv("PORT", "")
	t.Setenv("VIEW_BATCH_SIZE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 50, cfg.Views.BatchSize)
	assert.Equal(t, 30*time.Second, cfg.Views.FlushInterval)
	assert.Equal(t, 5.0, cfg.Recommendations.Weights["save"])
}

func TestLoadYAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "newsroom.yaml")
	raw := []byte(`
port: "9000"
views:
  batchSize: 10
  flushInterval: 5s
recommendations:
  weights:
    like: 7
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	t.Setenv(configPathEnv, path)
	t.Setenv("PORT", "")
	t.Setenv("VIEW_BATCH_SIZE", "25")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 25, cfg.Views.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Views.FlushInterval)
	assert.Equal(t, 7.0, cfg.Recommendations.Weights["like"])
	assert.Equal(t, 1.0, cfg.Recommendations.Weights["view"])
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.DatabaseURL = "postgres://localhost/newsroom"
	cfg.JWTSecret = "s3cret"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_RejectsNonPositiveTunables(t *testing.T) {
	base := Default()
	base.DatabaseURL = "postgres://localhost/newsroom"
	base.JWTSecret = "s3cret"

	cases := map[string]func(c *Config){
		"views.flushInterval":           func(c *Config) { c.Views.FlushInterval = 0 },
		"scheduler.interval":            func(c *Config) { c.Scheduler.Interval = -time.Second },
		"cache.articlesTtl":             func(c *Config) { c.Cache.ArticlesTTL = 0 },
		"cache.unreadTtl":               func(c *Config) { c.Cache.UnreadTTL = 0 },
		"auth.tokenTtl":                 func(c *Config) { c.Auth.TokenTTL = 0 },
		"recommendations.topCategories": func(c *Config) { c.Recommendations.TopCategories = 0 },
		"recommendations.halfLifeDays":  func(c *Config) { c.Recommendations.HalfLifeDays = 0 },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			cfg := base
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), field)
		})
	}
}

func TestValidate_ZeroIntervalFromYAML(t *testing.T) {
	cfg := Default()
	cfg.DatabaseURL = "postgres://localhost/newsroom"
	cfg.JWTSecret = "s3cret"
	require.NoError(t, parseInto(&cfg, []byte("views:\n  flushInterval: 0s\nscheduler:\n  interval: 0s\n")))

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "views.flushInterval")
	assert.Contains(t, err.Error(), "scheduler.interval")
}
