package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"romfind/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[datasets]
base_url = "https://roms.example.net/sets"
allowed = ["mame2003", "fbneo"]
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config to be found at %s", path)
	}
	if cfg.Search.CacheMaxEntries != 100 {
		t.Fatalf("expected default cache_max_entries, got %d", cfg.Search.CacheMaxEntries)
	}
	if cfg.Search.CacheTTLSeconds != 300 {
		t.Fatalf("expected default cache_ttl_seconds, got %d", cfg.Search.CacheTTLSeconds)
	}
	if cfg.Datasets.BaseURL != "https://roms.example.net/sets" {
		t.Fatalf("unexpected base url %q", cfg.Datasets.BaseURL)
	}
	if len(cfg.Datasets.Allowed) != 2 {
		t.Fatalf("unexpected allow-list %v", cfg.Datasets.Allowed)
	}
	if !strings.HasPrefix(cfg.Paths.DataDir, string(os.PathSeparator)) {
		t.Fatalf("expected expanded data dir, got %q", cfg.Paths.DataDir)
	}
}

func TestLoadTrimsBaseURLAndAllowList(t *testing.T) {
	path := writeConfig(t, `
[datasets]
base_url = "https://roms.example.net/sets/"
allowed = ["mame2003", "  ", ""]
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Datasets.BaseURL != "https://roms.example.net/sets" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Datasets.BaseURL)
	}
	if len(cfg.Datasets.Allowed) != 1 || cfg.Datasets.Allowed[0] != "mame2003" {
		t.Fatalf("expected blank entries dropped, got %v", cfg.Datasets.Allowed)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad scheme", "[datasets]\nbase_url = \"ftp://roms.example.net\"\n"},
		{"traversal id", "[datasets]\nallowed = [\"../etc\"]\n"},
		{"duplicate id", "[datasets]\nallowed = [\"mame2003\", \"mame2003\"]\n"},
		{"bad log format", "[logging]\nformat = \"yaml\"\n"},
		{"tiny batch budget", "[search]\nbatch_max_chars = 10\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatalf("expected error for %s", tc.name)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("expected default log format, got %q", cfg.Logging.Format)
	}
}
