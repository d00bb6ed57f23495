package testsupport

import (
	"testing"

	"romfind/internal/config"
)

// NewConfig returns a validated config rooted in test temp directories.
func NewConfig(t testing.TB, allowed ...string) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Datasets.Allowed = allowed
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
