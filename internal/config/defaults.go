package config

const (
	defaultConfigPath            = "~/.config/marquee/config.toml"
	defaultDataDir               = "~/.local/share/marquee"
	defaultLogDir                = "~/.local/share/marquee/logs"
	defaultCatalogDriver         = "sqlite"
	defaultMongoDatabase         = "marquee"
	defaultTMDBBaseURL           = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL      = "https://image.tmdb.org/t/p/w500"
	defaultTMDBLanguage          = "en-US"
	defaultOMDbBaseURL           = "https://www.omdbapi.com/"
	defaultCSFDBaseURL           = "https://www.csfd.cz"
	defaultCSFDUserAgent         = "Mozilla/5.0 (X11; Linux x86_64) marquee"
	defaultProviderTimeout       = 10
	defaultSearchCacheSize       = 512
	defaultSearchCacheTTLSeconds = 3600
	defaultFetchCacheTTLSeconds  = 300
	defaultIntervalMinutes       = 360
	defaultStaleAfterDays        = 30
	defaultWorkers               = 1
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			Driver:        defaultCatalogDriver,
			MongoDatabase: defaultMongoDatabase,
		},
		TMDB: TMDB{
			Enabled:        true,
			BaseURL:        defaultTMDBBaseURL,
			ImageBaseURL:   defaultTMDBImageBaseURL,
			Language:       defaultTMDBLanguage,
			TimeoutSeconds: defaultProviderTimeout,
		},
		OMDb: OMDb{
			Enabled:        true,
			BaseURL:        defaultOMDbBaseURL,
			TimeoutSeconds: defaultProviderTimeout,
		},
		CSFD: CSFD{
			Enabled:        true,
			BaseURL:        defaultCSFDBaseURL,
			UserAgent:      defaultCSFDUserAgent,
			TimeoutSeconds: defaultProviderTimeout,
		},
		Providers: Providers{
			SearchCacheSize:       defaultSearchCacheSize,
			SearchCacheTTLSeconds: defaultSearchCacheTTLSeconds,
			FetchCacheTTLSeconds:  defaultFetchCacheTTLSeconds,
		},
		Enrichment: Enrichment{
			IntervalMinutes: defaultIntervalMinutes,
			StaleAfterDays:  defaultStaleAfterDays,
			Workers:         defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
