package config

const (
	defaultDataDir              = "~/.local/share/romfind"
	defaultLogDir               = "~/.local/share/romfind/logs"
	defaultDownloadTimeout      = 120
	defaultCacheTTLSeconds      = 300
	defaultCacheMaxEntries      = 100
	defaultWorkerTimeoutSeconds = 30
	defaultBatchMaxChars        = 4000
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Datasets: Datasets{
			DownloadTimeout: defaultDownloadTimeout,
		},
		Search: Search{
			CacheTTLSeconds:      defaultCacheTTLSeconds,
			CacheMaxEntries:      defaultCacheMaxEntries,
			WorkerTimeoutSeconds: defaultWorkerTimeoutSeconds,
			BatchMaxChars:        defaultBatchMaxChars,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
