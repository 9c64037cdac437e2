package testsupport

import (
	"path/filepath"
	"testing"

	"pastforward/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Gemini.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.MediaDir = filepath.Join(base, "media")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithAPIKey sets the Gemini API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Gemini.APIKey = key
	}
}

// WithConcurrency overrides the batch concurrency on the test config.
func WithConcurrency(n int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Generation.Concurrency = n
	}
}
