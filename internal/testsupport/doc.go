// Package testsupport provides shared helpers for building dataset fixtures
// and configs in tests.
package testsupport
