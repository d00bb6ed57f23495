// Package main hosts the romfind CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, sets up structured
// logging, and surfaces the search service: loading an allow-listed dataset,
// looking up one or many ROM names, and listing the configured datasets.
// Heavy lifting lives in the internal packages; commands stay declarative.
package main
