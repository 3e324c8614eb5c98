// Package provideraccess builds the provider registry from configuration.
package provideraccess

import (
	"fmt"
	"log/slog"
	"time"

	"marquee/internal/config"
	"marquee/internal/logging"
	"marquee/internal/providers"
	"marquee/internal/providers/csfd"
	"marquee/internal/providers/omdb"
	"marquee/internal/providers/tmdb"
)

// Open constructs every enabled provider, wraps each in the shared cache, and
// returns them registered in priority order.
func Open(cfg *config.Config, logger *slog.Logger) (*providers.Registry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("provider registry: config is nil")
	}
	logger = logging.NewComponentLogger(logger, "providers")

	var list []providers.Provider
	if cfg.TMDB.Enabled {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language,
			tmdb.WithTimeout(seconds(cfg.TMDB.TimeoutSeconds)),
			tmdb.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		)
		if err != nil {
			return nil, fmt.Errorf("tmdb provider: %w", err)
		}
		list = append(list, client)
	}
	if cfg.OMDb.Enabled {
		client, err := omdb.New(cfg.OMDb.APIKey, cfg.OMDb.BaseURL,
			omdb.WithTimeout(seconds(cfg.OMDb.TimeoutSeconds)),
		)
		if err != nil {
			return nil, fmt.Errorf("omdb provider: %w", err)
		}
		list = append(list, client)
	}
	if cfg.CSFD.Enabled {
		client, err := csfd.New(cfg.CSFD.BaseURL,
			csfd.WithTimeout(seconds(cfg.CSFD.TimeoutSeconds)),
			csfd.WithUserAgent(cfg.CSFD.UserAgent),
		)
		if err != nil {
			return nil, fmt.Errorf("csfd provider: %w", err)
		}
		list = append(list, client)
	}

	cached := make([]providers.Provider, 0, len(list))
	for _, p := range list {
		wrapped, err := providers.NewCached(p, cfg.Providers.SearchCacheSize, cfg.SearchCacheTTL(), cfg.FetchCacheTTL())
		if err != nil {
			return nil, err
		}
		cached = append(cached, wrapped)
	}

	registry, err := providers.NewRegistry(cached...)
	if err != nil {
		return nil, fmt.Errorf("provider registry: %w", err)
	}
	sources := make([]string, 0, registry.Len())
	for _, src := range registry.Sources() {
		sources = append(sources, string(src))
	}
	logger.Debug("providers ready",
		logging.Any("sources", sources),
		logging.Int("search_cache_size", cfg.Providers.SearchCacheSize),
	)
	return registry, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
