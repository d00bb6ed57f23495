// Package config loads and validates romfind configuration from TOML.
//
// Configuration covers the dataset catalog (allow-listed identifiers and the
// base URL they are fetched from), search tuning (result cache size and TTL,
// worker timeout, batch limits), filesystem paths, and logging. Load applies
// defaults, expands home-relative paths, and validates the result so callers
// receive a config that is ready to use.
package config
