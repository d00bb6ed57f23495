package query

import (
	"errors"
	"strings"
)

// ErrNoTerms is returned when Build is called with an empty term set.
var ErrNoTerms = errors.New("at least one search term required")

// Query is a ready-to-execute statement with bound arguments.
type Query struct {
	SQL  string
	Args []any
	// WithClones records whether the statement selects the parent-name
	// column, which decides the row shape on scan.
	WithClones bool
}

// Build constructs the lookup statement for a normalized term set.
//
// includeClones=false restricts results to parent entries and omits the
// parent-name column entirely. includeClones=true returns every variant and
// joins each row to its parent so the parent's display name rides along.
// Rows are ordered by clone group first, then display name, so a parent and
// its clones stay adjacent in listings.
func Build(terms []string, includeClones bool) (Query, error) {
	if len(terms) == 0 {
		return Query{}, ErrNoTerms
	}

	var sb strings.Builder
	var args []any

	if includeClones {
		sb.WriteString("SELECT g.rom, g.name, p.name FROM games g LEFT JOIN games p ON g.clone_of = p.id WHERE ")
	} else {
		sb.WriteString("SELECT g.rom, g.name FROM games g WHERE ")
	}

	if len(terms) == 1 {
		writeSubstringPredicate(&sb, &args, terms[0])
	} else {
		sb.WriteString("g.id IN (SELECT rowid FROM games_fts WHERE games_fts MATCH ?)")
		args = append(args, MatchExpression(terms))
	}

	if !includeClones {
		sb.WriteString(" AND g.clone_of IS NULL")
	}

	sb.WriteString(" ORDER BY COALESCE(g.clone_of, g.id), g.name")

	return Query{SQL: sb.String(), Args: args, WithClones: includeClones}, nil
}

// writeSubstringPredicate emits an AND of LIKE conditions, one per word of
// the term, so word order and surrounding text do not matter.
func writeSubstringPredicate(sb *strings.Builder, args *[]any, term string) {
	tokens := strings.Fields(term)
	if len(tokens) == 0 {
		tokens = []string{term}
	}
	sb.WriteString("(")
	for i, token := range tokens {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		sb.WriteString(`g.term LIKE ? ESCAPE '\'`)
		*args = append(*args, "%"+EscapeLike(token)+"%")
	}
	sb.WriteString(")")
}

// MatchExpression renders terms as an OR of quoted FTS phrases.
func MatchExpression(terms []string) string {
	phrases := make([]string, len(terms))
	for i, term := range terms {
		phrases[i] = EscapeMatch(term)
	}
	return strings.Join(phrases, " OR ")
}
