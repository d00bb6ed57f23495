package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Datasets describes where dataset files live and which may be opened.
type Datasets struct {
	// BaseURL is the HTTP endpoint dataset files are fetched from.
	BaseURL string `toml:"base_url"`
	// Allowed lists dataset identifiers that may be loaded. Identifiers not
	// on this list are rejected before any path or URL is constructed.
	Allowed []string `toml:"allowed"`
	// DownloadTimeout bounds a single dataset fetch, in seconds.
	DownloadTimeout int `toml:"download_timeout"`
}

// Search contains tuning for the lookup pipeline.
type Search struct {
	CacheTTLSeconds      int `toml:"cache_ttl_seconds"`
	CacheMaxEntries      int `toml:"cache_max_entries"`
	WorkerTimeoutSeconds int `toml:"worker_timeout_seconds"`
	// BatchMaxChars bounds the combined term length of a single multi-term
	// sub-query; longer term lists are chunked.
	BatchMaxChars int `toml:"batch_max_chars"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for romfind.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Datasets Datasets `toml:"datasets"`
	Search   Search   `toml:"search"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/romfind/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a config file was found; defaults apply either way.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories romfind writes to.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// WriteSample writes the annotated sample configuration to the given path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	c.Datasets.BaseURL = strings.TrimRight(strings.TrimSpace(c.Datasets.BaseURL), "/")
	allowed := make([]string, 0, len(c.Datasets.Allowed))
	for _, id := range c.Datasets.Allowed {
		id = strings.TrimSpace(id)
		if id != "" {
			allowed = append(allowed, id)
		}
	}
	c.Datasets.Allowed = allowed

	if c.Datasets.DownloadTimeout <= 0 {
		c.Datasets.DownloadTimeout = defaultDownloadTimeout
	}
	if c.Search.CacheTTLSeconds <= 0 {
		c.Search.CacheTTLSeconds = defaultCacheTTLSeconds
	}
	if c.Search.CacheMaxEntries <= 0 {
		c.Search.CacheMaxEntries = defaultCacheMaxEntries
	}
	if c.Search.WorkerTimeoutSeconds <= 0 {
		c.Search.WorkerTimeoutSeconds = defaultWorkerTimeoutSeconds
	}
	if c.Search.BatchMaxChars <= 0 {
		c.Search.BatchMaxChars = defaultBatchMaxChars
	}

	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}

func expandPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", path, err)
	}
	return abs, nil
}
