package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Entry is a text-derived bibliography record (one ground-truth entry block).
type Entry struct {
	ID        int64  `json:"id,omitempty"`
	Author    string `json:"author"`
	Title     string `json:"title"`
	Note      string `json:"note"`
	Year      string `json:"year"`
	Place     string `json:"place"`
	Publisher string `json:"publisher"`
	Pages     string `json:"pages"`
	Library   string `json:"library"`
	FullEntry string `json:"full_entry"`
}

// JSONEntry is a record from a structured JSON catalog. All fields are
// optional; missing fields insert as NULL.
type JSONEntry struct {
	ID          int64   `json:"id,omitempty"`
	Lastname    *string `json:"lastname"`
	Firstname   *string `json:"firstname"`
	Birthyear   *string `json:"birthyear"`
	Deathyear   *string `json:"deathyear"`
	Title       *string `json:"title"`
	City        *string `json:"city"`
	Publisher   *string `json:"publisher"`
	Publishyear *string `json:"publishyear"`
	Pagecount   *string `json:"pagecount"`
	Library     *string `json:"library"`
	Description *string `json:"description"`
	IndexNum    *string `json:"index"`
	SourceFile  string  `json:"source_file,omitempty"`
}

var (
	yearRe  = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
	pagesRe = regexp.MustCompile(`\b(\d+)\s*(?:p\.|pp\.|S\.|l\.)`)
	// "Place: Publisher" or "Place, Publisher" following a period.
	imprintRe = regexp.MustCompile(`([A-ZÄÖÜ][\p{L}\- ]+?)\s*:\s*([\p{L}&.\- ]+?)\s*[,.]`)
	authorRe  = regexp.MustCompile(`^([\p{Lu}][\p{L}\-']+,\s*[\p{Lu}][\p{L}\-'. ]*?)[.:]`)
)

// ParseEntry applies field heuristics to one entry block. The raw block is
// always preserved in FullEntry; fields that cannot be recognized stay empty.
func ParseEntry(block string) Entry {
	block = strings.TrimSpace(block)
	flat := strings.Join(strings.Fields(block), " ")
	e := Entry{FullEntry: block}

	rest := flat
	if m := authorRe.FindStringSubmatch(flat); m != nil {
		e.Author = strings.TrimSpace(m[1])
		rest = strings.TrimSpace(flat[len(m[0]):])
	}
	if m := yearRe.FindString(flat); m != "" {
		e.Year = m
	}
	if m := pagesRe.FindStringSubmatch(flat); m != nil {
		e.Pages = m[1]
	}
	if m := imprintRe.FindStringSubmatch(flat); m != nil {
		e.Place = strings.TrimSpace(m[1])
		e.Publisher = strings.TrimSpace(m[2])
	}
	// Title: text up to the first period of what remains after the author.
	if idx := strings.Index(rest, "."); idx > 0 {
		e.Title = strings.TrimSpace(rest[:idx])
	} else if rest != "" {
		e.Title = rest
	}
	return e
}

// SplitEntries separates a ground-truth text into entry blocks on blank lines.
func SplitEntries(text string) []string {
	var blocks []string
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if strings.TrimSpace(block) != "" {
			blocks = append(blocks, strings.TrimSpace(block))
		}
	}
	return blocks
}

// InsertEntries appends text-derived entries to the bibliography table.
func (s *Store) InsertEntries(entries []Entry) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	stmt, err := db.Prepare(`INSERT INTO bibliography
		(author, title, note, year, place, publisher, pages, library, full_entry)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, e := range entries {
		if _, err := stmt.Exec(nullable(e.Author), nullable(e.Title), nullable(e.Note),
			nullable(e.Year), nullable(e.Place), nullable(e.Publisher),
			nullable(e.Pages), nullable(e.Library), e.FullEntry); err != nil {
			return inserted, fmt.Errorf("insert entry: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// ImportJSON reads a JSON array of catalog records and appends them to
// biblio_entries. A malformed element is skipped; the rest of the file is
// still processed. Returns (inserted, skipped).
func (s *Store) ImportJSON(path string) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, fmt.Errorf("read json: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, 0, fmt.Errorf("parse json array: %w", err)
	}

	db, err := s.open()
	if err != nil {
		return 0, 0, err
	}
	defer db.Close()

	stmt, err := db.Prepare(`INSERT INTO biblio_entries
		(lastname, firstname, birthyear, deathyear, title, city, publisher,
		 publishyear, pagecount, library, description, index_num, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted, skipped := 0, 0
	for _, elem := range raw {
		var e JSONEntry
		if err := json.Unmarshal(elem, &e); err != nil {
			skipped++
			continue
		}
		if _, err := stmt.Exec(e.Lastname, e.Firstname, e.Birthyear, e.Deathyear,
			e.Title, e.City, e.Publisher, e.Publishyear, e.Pagecount,
			e.Library, e.Description, e.IndexNum, path); err != nil {
			skipped++
			continue
		}
		inserted++
	}
	return inserted, skipped, nil
}

// SearchBibliography runs substring matching over both tables. No ranking;
// rows come back in insertion order.
func (s *Store) SearchBibliography(query string) ([]Entry, []JSONEntry, error) {
	db, err := s.open()
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	like := "%" + query + "%"

	textRows, err := db.Query(`SELECT id, author, title, note, year, place, publisher, pages, library, full_entry
		FROM bibliography
		WHERE full_entry LIKE ?1 OR author LIKE ?1 OR title LIKE ?1 OR year LIKE ?1
		ORDER BY id`, like)
	if err != nil {
		return nil, nil, fmt.Errorf("query bibliography: %w", err)
	}
	defer textRows.Close()

	var entries []Entry
	for textRows.Next() {
		e, err := scanEntry(textRows)
		if err != nil {
			return nil, nil, err
		}
		entries = append(entries, e)
	}
	if err := textRows.Err(); err != nil {
		return nil, nil, err
	}

	jsonRows, err := db.Query(`SELECT id, lastname, firstname, birthyear, deathyear, title, city,
		publisher, publishyear, pagecount, library, description, index_num, source_file
		FROM biblio_entries
		WHERE lastname LIKE ?1 OR firstname LIKE ?1 OR title LIKE ?1
		   OR publishyear LIKE ?1 OR library LIKE ?1 OR description LIKE ?1
		ORDER BY id`, like)
	if err != nil {
		return nil, nil, fmt.Errorf("query biblio_entries: %w", err)
	}
	defer jsonRows.Close()

	var jsonEntries []JSONEntry
	for jsonRows.Next() {
		e, err := scanJSONEntry(jsonRows)
		if err != nil {
			return nil, nil, err
		}
		jsonEntries = append(jsonEntries, e)
	}
	return entries, jsonEntries, jsonRows.Err()
}

// ListEntries returns all text-derived entries in insertion order.
func (s *Store) ListEntries() ([]Entry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, author, title, note, year, place, publisher, pages, library, full_entry
		FROM bibliography ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query bibliography: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListJSONEntries returns all catalog records in insertion order.
func (s *Store) ListJSONEntries() ([]JSONEntry, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT id, lastname, firstname, birthyear, deathyear, title, city,
		publisher, publishyear, pagecount, library, description, index_num, source_file
		FROM biblio_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query biblio_entries: %w", err)
	}
	defer rows.Close()

	var entries []JSONEntry
	for rows.Next() {
		e, err := scanJSONEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ClearBibliography empties the named table ("bibliography", "biblio_entries"
// or "all"). Clearing an already-empty table succeeds.
func (s *Store) ClearBibliography(table string) error {
	var stmts []string
	switch table {
	case "bibliography":
		stmts = []string{`DELETE FROM bibliography`}
	case "biblio_entries":
		stmts = []string{`DELETE FROM biblio_entries`}
	case "all", "":
		stmts = []string{`DELETE FROM bibliography`, `DELETE FROM biblio_entries`}
	default:
		return fmt.Errorf("unknown table: %s", table)
	}

	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("clear table: %w", err)
		}
	}
	return nil
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var author, title, note, year, place, publisher, pages, library sql.NullString
	if err := rows.Scan(&e.ID, &author, &title, &note, &year, &place, &publisher, &pages, &library, &e.FullEntry); err != nil {
		return e, fmt.Errorf("scan entry: %w", err)
	}
	e.Author = author.String
	e.Title = title.String
	e.Note = note.String
	e.Year = year.String
	e.Place = place.String
	e.Publisher = publisher.String
	e.Pages = pages.String
	e.Library = library.String
	return e, nil
}

func scanJSONEntry(rows *sql.Rows) (JSONEntry, error) {
	var e JSONEntry
	var sourceFile sql.NullString
	if err := rows.Scan(&e.ID, &e.Lastname, &e.Firstname, &e.Birthyear, &e.Deathyear,
		&e.Title, &e.City, &e.Publisher, &e.Publishyear, &e.Pagecount,
		&e.Library, &e.Description, &e.IndexNum, &sourceFile); err != nil {
		return e, fmt.Errorf("scan json entry: %w", err)
	}
	e.SourceFile = sourceFile.String
	return e, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
