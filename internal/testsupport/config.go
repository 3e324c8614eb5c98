package testsupport

import (
	"path/filepath"
	"testing"

	"marquee/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.SQLitePath = filepath.Join(base, "data", "catalog.db")
	cfgVal.TMDB.APIKey = "test"
	cfgVal.OMDb.APIKey = "test"
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithTMDBKey sets the TMDB API key on the test config.
func WithTMDBKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.TMDB.APIKey = key
	}
}

// WithProviderURLs points the provider clients at test servers. Empty values
// leave the default in place.
func WithProviderURLs(tmdbURL, omdbURL, csfdURL string) ConfigOption {
	return func(b *configBuilder) {
		if tmdbURL != "" {
			b.cfg.TMDB.BaseURL = tmdbURL
		}
		if omdbURL != "" {
			b.cfg.OMDb.BaseURL = omdbURL
		}
		if csfdURL != "" {
			b.cfg.CSFD.BaseURL = csfdURL
		}
	}
}

// WithWorkers sets the enrichment sweep worker count.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Enrichment.Workers = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
