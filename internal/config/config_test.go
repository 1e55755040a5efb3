package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8888", cfg.API.BaseURL)
	assert.Equal(t, "http://localhost:3001/executeGeneration", cfg.API.GenerationURL)
	assert.Equal(t, "local", cfg.Inference.Backend)
	assert.Equal(t, "llama3", cfg.Inference.Model)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ideaminds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://templates.internal
inference:
  backend: openai
  model: gpt-4o-mini
storage:
  backend: sqlite
  path: /tmp/ideaminds.db
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://templates.internal", cfg.API.BaseURL)
	assert.Equal(t, "openai", cfg.Inference.Backend)
	assert.Equal(t, "gpt-4o-mini", cfg.Inference.Model)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "http://localhost:3001/executeGeneration", cfg.API.GenerationURL, "unset keys keep defaults")
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: parse")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("IDEAMINDS_API_URL", "http://api.test")
	t.Setenv("IDEAMINDS_MODEL", "mistral")
	t.Setenv("IDEAMINDS_STORAGE", "memory")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://api.test", cfg.API.BaseURL)
	assert.Equal(t, "mistral", cfg.Inference.Model)
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.Equal(t, "sk-test", cfg.Inference.APIKey)
}

func TestPath(t *testing.T) {
	t.Setenv(EnvConfig, "")
	assert.Equal(t, DefaultPath, Path())

	t.Setenv(EnvConfig, "/etc/ideaminds.yaml")
	assert.Equal(t, "/etc/ideaminds.yaml", Path())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "backend", mutate: func(c *Config) { c.Inference.Backend = "gemini" }, want: "invalid inference backend"},
		{name: "local url", mutate: func(c *Config) { c.Inference.URL = "" }, want: "inference.url is required"},
		{name: "storage", mutate: func(c *Config) { c.Storage.Backend = "redis" }, want: "invalid storage backend"},
		{name: "storage path", mutate: func(c *Config) { c.Storage.Path = "" }, want: "storage.path is required"},
		{name: "base url", mutate: func(c *Config) { c.API.BaseURL = " " }, want: "api.base_url is required"},
		{name: "timeout", mutate: func(c *Config) { c.API.Timeout = "soon" }, want: "api.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	memory := DefaultConfig()
	memory.Storage = StorageConfig{Backend: "memory"}
	assert.NoError(t, memory.Validate())
}

func TestTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.APITimeout())
	assert.Equal(t, 120*time.Second, cfg.InferenceTimeout())

	cfg.API.Timeout = "bogus"
	assert.Equal(t, 30*time.Second, cfg.APITimeout())
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "nested", "ideaminds.yaml")
	cfg := DefaultConfig()
	cfg.Inference.Model = "phi3"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
