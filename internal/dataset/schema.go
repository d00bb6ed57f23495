package dataset

// Table is the games table name shared by query construction and tooling.
const Table = "games"

// FTSTable is the full-text index over the games search key column.
const FTSTable = "games_fts"

// Schema is the layout dataset files are built with. Files are immutable
// once built; the search core only ever reads them. The FTS table is an
// external-content index over games.term, so builders must populate it after
// inserting rows.
const Schema = `
CREATE TABLE games (
    id       INTEGER PRIMARY KEY,
    rom      TEXT NOT NULL,
    name     TEXT NOT NULL DEFAULT '',
    term     TEXT NOT NULL DEFAULT '',
    clone_of INTEGER REFERENCES games(id)
);
CREATE INDEX idx_games_term ON games(term);
CREATE VIRTUAL TABLE games_fts USING fts5(term, content='games', content_rowid='id');
`
