// Package config loads the ideaminds process configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the variable pointing at the configuration file.
const EnvConfig = "IDEAMINDS_CONFIG"

// DefaultPath is read when EnvConfig is unset.
const DefaultPath = "ideaminds.yaml"

// Config holds all ideaminds configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Inference InferenceConfig `yaml:"inference"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// APIConfig configures the template and persona service.
type APIConfig struct {
	BaseURL       string `yaml:"base_url"`
	GenerationURL string `yaml:"generation_url"`
	Timeout       string `yaml:"timeout"`
}

// InferenceConfig selects and configures the generation backend.
type InferenceConfig struct {
	Backend      string `yaml:"backend"` // local, openai
	URL          string `yaml:"url"`
	Model        string `yaml:"model"`
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	SystemPrompt string `yaml:"system_prompt"`
	Timeout      string `yaml:"timeout"`
}

// StorageConfig selects where notes and suites persist.
type StorageConfig struct {
	Backend string `yaml:"backend"` // memory, file, sqlite
	Path    string `yaml:"path"`
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	Mode  string `yaml:"mode"` // development, production
	Level string `yaml:"level"`
}

// ValidBackends lists the supported inference backends.
var ValidBackends = []string{"local", "openai"}

// ValidStorage lists the supported storage backends.
var ValidStorage = []string{"memory", "file", "sqlite"}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:       "http://localhost:8888",
			GenerationURL: "http://localhost:3001/executeGeneration",
			Timeout:       "30s",
		},
		Inference: InferenceConfig{
			Backend: "local",
			URL:     "http://localhost:8888/api/query",
			Model:   "llama3",
			Timeout: "120s",
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    defaultStoragePath(),
		},
		Logging: LoggingConfig{
			Mode:  "development",
			Level: "info",
		},
	}
}

// Path returns the configuration file location.
func Path() string {
	if path := strings.TrimSpace(os.Getenv(EnvConfig)); path != "" {
		return path
	}
	return DefaultPath
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: create directory: %w", err)
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"IDEAMINDS_API_URL", &c.API.BaseURL},
		{"IDEAMINDS_GENERATION_URL", &c.API.GenerationURL},
		{"IDEAMINDS_BACKEND", &c.Inference.Backend},
		{"IDEAMINDS_INFERENCE_URL", &c.Inference.URL},
		{"IDEAMINDS_MODEL", &c.Inference.Model},
		{"IDEAMINDS_OPENAI_BASE_URL", &c.Inference.BaseURL},
		{"IDEAMINDS_STORAGE", &c.Storage.Backend},
		{"IDEAMINDS_STORAGE_PATH", &c.Storage.Path},
		{"IDEAMINDS_LOG_MODE", &c.Logging.Mode},
		{"IDEAMINDS_LOG_LEVEL", &c.Logging.Level},
	}
	for _, o := range overrides {
		if value := strings.TrimSpace(os.Getenv(o.env)); value != "" {
			*o.target = value
		}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Inference.APIKey = key
	}
}

// APITimeout returns the template service timeout.
func (c *Config) APITimeout() time.Duration {
	return parseDuration(c.API.Timeout, 30*time.Second)
}

// InferenceTimeout returns the generation timeout.
func (c *Config) InferenceTimeout() time.Duration {
	return parseDuration(c.Inference.Timeout, 120*time.Second)
}

// Validate checks the configuration for unsupported values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("config: api.base_url is required")
	}
	if !slices.Contains(ValidBackends, c.Inference.Backend) {
		return fmt.Errorf("config: invalid inference backend %q (valid: %v)", c.Inference.Backend, ValidBackends)
	}
	if c.Inference.Backend == "local" && strings.TrimSpace(c.Inference.URL) == "" {
		return fmt.Errorf("config: inference.url is required for the local backend")
	}
	if !slices.Contains(ValidStorage, c.Storage.Backend) {
		return fmt.Errorf("config: invalid storage backend %q (valid: %v)", c.Storage.Backend, ValidStorage)
	}
	if c.Storage.Backend != "memory" && strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("config: storage.path is required for the %s backend", c.Storage.Backend)
	}
	for name, value := range map[string]string{"api.timeout": c.API.Timeout, "inference.timeout": c.Inference.Timeout} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
	}
	return nil
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func defaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".ideaminds", "store.yaml")
	}
	return filepath.Join(dir, "ideaminds", "store.yaml")
}
