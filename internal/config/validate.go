package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDatasets(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDatasets() error {
	if c.Datasets.BaseURL != "" && !strings.HasPrefix(c.Datasets.BaseURL, "http://") && !strings.HasPrefix(c.Datasets.BaseURL, "https://") {
		return fmt.Errorf("datasets.base_url must be an http(s) URL, got %q", c.Datasets.BaseURL)
	}
	seen := make(map[string]struct{}, len(c.Datasets.Allowed))
	for _, id := range c.Datasets.Allowed {
		if !validDatasetID(id) {
			return fmt.Errorf("datasets.allowed contains invalid identifier %q (letters, digits, '-' and '_' only)", id)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("datasets.allowed contains duplicate identifier %q", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.CacheMaxEntries > 10000 {
		return errors.New("search.cache_max_entries must be at most 10000")
	}
	if c.Search.BatchMaxChars < 100 {
		return errors.New("search.batch_max_chars must be at least 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// validDatasetID reports whether id is safe to use as a dataset identifier.
// Identifiers become file and URL path segments, so only a conservative
// character set is accepted.
func validDatasetID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
