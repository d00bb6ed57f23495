package dataset

import (
	"database/sql"
	"fmt"
)

// Game is one search result row. CloneOf carries the parent entry's display
// name and is populated only when the query ran with the clones join; callers
// must not rely on it otherwise.
type Game struct {
	ROM     string `json:"rom"`
	Name    string `json:"name"`
	CloneOf string `json:"cloneOf,omitempty"`
}

// ScanGames maps query rows to Game values. It is the single deserialization
// boundary between positional SQL columns and named fields: queries built
// with the clones join select (rom, name, clone_of), all others (rom, name).
func ScanGames(rows *sql.Rows, withClones bool) ([]Game, error) {
	games := make([]Game, 0, 16)
	for rows.Next() {
		var g Game
		if withClones {
			var parent sql.NullString
			if err := rows.Scan(&g.ROM, &g.Name, &parent); err != nil {
				return nil, fmt.Errorf("scan game row: %w", err)
			}
			if parent.Valid {
				g.CloneOf = parent.String
			}
		} else {
			if err := rows.Scan(&g.ROM, &g.Name); err != nil {
				return nil, fmt.Errorf("scan game row: %w", err)
			}
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game rows: %w", err)
	}
	return games, nil
}
