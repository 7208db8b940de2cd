// Package store holds the word-frequency and bibliography tables in a local
// SQLite file. The database is opened per operation and closed after; no
// transaction spans two calls.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database file path.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

const schema = `
CREATE TABLE IF NOT EXISTS word_frequencies (
	word  TEXT PRIMARY KEY,
	count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS bibliography (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	author     TEXT,
	title      TEXT,
	note       TEXT,
	year       TEXT,
	place      TEXT,
	publisher  TEXT,
	pages      TEXT,
	library    TEXT,
	full_entry TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS biblio_entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	lastname    TEXT,
	firstname   TEXT,
	birthyear   TEXT,
	deathyear   TEXT,
	title       TEXT,
	city        TEXT,
	publisher   TEXT,
	publishyear TEXT,
	pagecount   TEXT,
	library     TEXT,
	description TEXT,
	index_num   TEXT,
	source_file TEXT,
	created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_biblio_lastname    ON biblio_entries(lastname);
CREATE INDEX IF NOT EXISTS idx_biblio_firstname   ON biblio_entries(firstname);
CREATE INDEX IF NOT EXISTS idx_biblio_title       ON biblio_entries(title);
CREATE INDEX IF NOT EXISTS idx_biblio_publishyear ON biblio_entries(publishyear);
CREATE INDEX IF NOT EXISTS idx_biblio_library     ON biblio_entries(library);
CREATE INDEX IF NOT EXISTS idx_biblio_description ON biblio_entries(description);
`

// open returns a fresh connection with the schema applied. Callers must close it.
func (s *Store) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}
