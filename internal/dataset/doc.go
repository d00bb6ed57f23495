// Package dataset defines the dataset file contract and the pieces that
// bring a dataset into memory.
//
// A dataset is a single immutable SQLite file per ROM set, addressed by an
// allow-listed identifier. The Catalog validates identifiers before any path
// or URL is built from them; the Fetcher downloads dataset bytes over HTTP
// with an on-disk cache; Game and ScanGames are the one place raw query
// columns become named fields.
package dataset
