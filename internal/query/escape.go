package query

import "strings"

// likeEscaper neutralizes LIKE wildcards so user text matches literally.
// Quote characters need no handling here: every LIKE pattern is passed as a
// bound parameter, never spliced into SQL.
var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike escapes s for use in a LIKE pattern with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// EscapeMatch wraps s in double quotes as a single FTS5 phrase, doubling any
// embedded quotes so user text can never be read as MATCH syntax. Normalized
// terms cannot contain quotes, but this function must stay safe for raw
// input too.
func EscapeMatch(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
