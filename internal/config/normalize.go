package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeTMDB()
	c.normalizeOMDb()
	c.normalizeCSFD()
	c.normalizeProviders()
	c.normalizeEnrichment()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	c.Catalog.Driver = strings.ToLower(strings.TrimSpace(c.Catalog.Driver))
	if c.Catalog.Driver == "" {
		c.Catalog.Driver = defaultCatalogDriver
	}
	var err error
	if strings.TrimSpace(c.Catalog.SQLitePath) == "" {
		c.Catalog.SQLitePath = filepath.Join(c.Paths.DataDir, "catalog.db")
	}
	if c.Catalog.SQLitePath, err = expandPath(c.Catalog.SQLitePath); err != nil {
		return fmt.Errorf("catalog.sqlite_path: %w", err)
	}
	c.Catalog.MongoURI = strings.TrimSpace(c.Catalog.MongoURI)
	if c.Catalog.MongoURI == "" {
		if value, ok := os.LookupEnv("MARQUEE_MONGO_URI"); ok {
			c.Catalog.MongoURI = strings.TrimSpace(value)
		}
	}
	c.Catalog.MongoDatabase = strings.TrimSpace(c.Catalog.MongoDatabase)
	if c.Catalog.MongoDatabase == "" {
		c.Catalog.MongoDatabase = defaultMongoDatabase
	}
	return nil
}

func (c *Config) normalizeTMDB() {
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = value
		}
	}
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		if value, ok := os.LookupEnv("TMDB_BASE_URL"); ok && strings.TrimSpace(value) != "" {
			c.TMDB.BaseURL = strings.TrimSpace(value)
		} else {
			c.TMDB.BaseURL = defaultTMDBBaseURL
		}
	}
	c.TMDB.ImageBaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.ImageBaseURL), "/")
	if c.TMDB.ImageBaseURL == "" {
		c.TMDB.ImageBaseURL = defaultTMDBImageBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
	if c.TMDB.TimeoutSeconds <= 0 {
		c.TMDB.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeOMDb() {
	if c.OMDb.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDb.APIKey = value
		}
	}
	c.OMDb.APIKey = strings.TrimSpace(c.OMDb.APIKey)
	c.OMDb.BaseURL = strings.TrimSpace(c.OMDb.BaseURL)
	if c.OMDb.BaseURL == "" {
		if value, ok := os.LookupEnv("OMDB_BASE_URL"); ok && strings.TrimSpace(value) != "" {
			c.OMDb.BaseURL = strings.TrimSpace(value)
		} else {
			c.OMDb.BaseURL = defaultOMDbBaseURL
		}
	}
	if c.OMDb.TimeoutSeconds <= 0 {
		c.OMDb.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeCSFD() {
	c.CSFD.BaseURL = strings.TrimRight(strings.TrimSpace(c.CSFD.BaseURL), "/")
	if c.CSFD.BaseURL == "" {
		c.CSFD.BaseURL = defaultCSFDBaseURL
	}
	c.CSFD.UserAgent = strings.TrimSpace(c.CSFD.UserAgent)
	if c.CSFD.UserAgent == "" {
		c.CSFD.UserAgent = defaultCSFDUserAgent
	}
	if c.CSFD.TimeoutSeconds <= 0 {
		c.CSFD.TimeoutSeconds = defaultProviderTimeout
	}
}

func (c *Config) normalizeProviders() {
	if c.Providers.SearchCacheSize < 0 {
		c.Providers.SearchCacheSize = 0
	}
	if c.Providers.SearchCacheTTLSeconds < 0 {
		c.Providers.SearchCacheTTLSeconds = 0
	}
	if c.Providers.FetchCacheTTLSeconds < 0 {
		c.Providers.FetchCacheTTLSeconds = 0
	}
}

func (c *Config) normalizeEnrichment() {
	if c.Enrichment.Workers <= 0 {
		c.Enrichment.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
