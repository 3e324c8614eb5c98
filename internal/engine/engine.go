// Package engine assembles the catalog, provider registry, and enrichment
// service from configuration.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"marquee/internal/catalogaccess"
	"marquee/internal/config"
	"marquee/internal/enrichment"
	"marquee/internal/logging"
	"marquee/internal/provideraccess"
	"marquee/internal/providers"
)

// Engine bundles the wired components a command or daemon needs.
type Engine struct {
	Catalog  catalogaccess.Catalog
	Backend  string
	Registry *providers.Registry
	Service  *enrichment.Service

	session catalogaccess.Session
}

// Open connects the catalog and builds the enrichment service. Callers must
// Close the engine when done.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("engine: config is nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	session, err := catalogaccess.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	registry, err := provideraccess.Open(cfg, logger)
	if err != nil {
		_ = session.Close()
		return nil, err
	}
	service, err := enrichment.New(session.Catalog, registry,
		enrichment.WithLogger(logger),
		enrichment.WithWorkers(cfg.Enrichment.Workers),
		enrichment.WithStaleAfter(cfg.StaleAfter()),
	)
	if err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("enrichment service: %w", err)
	}

	logger.Debug("engine ready",
		logging.String("catalog", session.Backend),
		logging.Int("providers", registry.Len()),
	)
	return &Engine{
		Catalog:  session.Catalog,
		Backend:  session.Backend,
		Registry: registry,
		Service:  service,
		session:  session,
	}, nil
}

// Close releases the catalog connection.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	return e.session.Close()
}
