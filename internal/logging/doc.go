// Package logging assembles structured slog loggers shared across romfind
// components.
//
// It centralizes level and output plumbing, standardizes field names for
// dataset and correlation identifiers, and provides a no-op logger for tests
// and wiring code that cannot fail. Prefer these constructors over hand-rolled
// slog setup so every component emits data with the same shape.
package logging
