// Package query builds the SQL issued against dataset files.
//
// A single search term becomes an AND of substring predicates over the
// indexed search key, so every word of the query must appear somewhere in the
// title regardless of order. Two or more terms become one full-text MATCH
// with OR-joined quoted phrases, trading substring precision for throughput
// when many names are checked at once. The two modes intentionally differ in
// precision; see DESIGN.md.
//
// All user text reaches the database either as a bound parameter with LIKE
// wildcards escaped, or inside an FTS phrase with quote characters doubled.
// Nothing a user types can alter query structure.
package query
