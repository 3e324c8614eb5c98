package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalog(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateEnrichment(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Driver {
	case "sqlite":
		if strings.TrimSpace(c.Catalog.SQLitePath) == "" {
			return errors.New("catalog.sqlite_path must be set when catalog.driver is sqlite")
		}
	case "mongo":
		if c.Catalog.MongoURI == "" {
			return errors.New("catalog.mongo_uri must be set when catalog.driver is mongo (or set MARQUEE_MONGO_URI)")
		}
	default:
		return fmt.Errorf("catalog.driver: unsupported value %q (expected sqlite or mongo)", c.Catalog.Driver)
	}
	return nil
}

func (c *Config) validateProviders() error {
	if !c.TMDB.Enabled && !c.OMDb.Enabled && !c.CSFD.Enabled {
		return errors.New("at least one of tmdb, omdb, or csfd must be enabled")
	}
	if c.TMDB.Enabled && c.TMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("tmdb.api_key is required when tmdb.enabled is true. Set TMDB_API_KEY env var or edit %s (create with 'marquee config init')", defaultPath)
	}
	if c.OMDb.Enabled && c.OMDb.APIKey == "" {
		return errors.New("omdb.api_key is required when omdb.enabled is true (or set OMDB_API_KEY)")
	}
	return ensurePositiveMap(map[string]int{
		"tmdb.timeout_seconds": c.TMDB.TimeoutSeconds,
		"omdb.timeout_seconds": c.OMDb.TimeoutSeconds,
		"csfd.timeout_seconds": c.CSFD.TimeoutSeconds,
	})
}

func (c *Config) validateEnrichment() error {
	if err := ensurePositiveMap(map[string]int{
		"enrichment.interval_minutes": c.Enrichment.IntervalMinutes,
		"enrichment.stale_after_days": c.Enrichment.StaleAfterDays,
		"enrichment.workers":          c.Enrichment.Workers,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
