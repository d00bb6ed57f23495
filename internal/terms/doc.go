// Package terms converts free-form user input into canonical search terms.
//
// Dataset files store a precomputed search key per game that was produced by
// the same rules applied here: diacritics folded, lowercased, every non-word
// character replaced by a space, whitespace collapsed. Keeping the two sides
// identical is what lets normalized user input match the indexed column, so
// any change to these rules requires rebuilding dataset files.
package terms
