package testsupport

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"romfind/internal/dataset"
	"romfind/internal/terms"
)

// GameRow seeds one record in a test dataset. CloneOf references the parent
// row's ID; zero marks a parent entry.
type GameRow struct {
	ID      int64
	ROM     string
	Name    string
	Term    string
	CloneOf int64
}

// Game builds a parent GameRow, deriving the search key from the name with
// the production normalization rules.
func Game(id int64, rom, name string) GameRow {
	return GameRow{ID: id, ROM: rom, Name: name, Term: terms.Line(name)}
}

// Clone builds a GameRow that is a clone of the given parent row ID.
func Clone(id int64, rom, name string, cloneOf int64) GameRow {
	row := Game(id, rom, name)
	row.CloneOf = cloneOf
	return row
}

// BuildDataset writes a dataset file with the production schema and returns
// its bytes, which is the form the worker consumes.
func BuildDataset(t testing.TB, games ...GameRow) []byte {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dataset.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open dataset build db: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(dataset.Schema); err != nil {
		t.Fatalf("apply dataset schema: %v", err)
	}

	for _, g := range games {
		cloneOf := sql.NullInt64{Int64: g.CloneOf, Valid: g.CloneOf != 0}
		if _, err := db.Exec(
			`INSERT INTO games (id, rom, name, term, clone_of) VALUES (?, ?, ?, ?, ?)`,
			g.ID, g.ROM, g.Name, g.Term, cloneOf,
		); err != nil {
			t.Fatalf("insert game %q: %v", g.ROM, err)
		}
	}
	if _, err := db.Exec(`INSERT INTO games_fts(rowid, term) SELECT id, term FROM games`); err != nil {
		t.Fatalf("populate fts index: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close dataset build db: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read dataset file: %v", err)
	}
	return data
}

// ServeDatasets starts an HTTP server handing out the given files by name
// and registers its shutdown with the test.
func ServeDatasets(t testing.TB, files map[string][]byte) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		data, ok := files[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}
