package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// WordCount is one row of the word_frequencies table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// RebuildWordFrequencies clears the table and repopulates it from text. The
// table is wholesale-replaced, not merged. Returns the number of distinct words.
func (s *Store) RebuildWordFrequencies(text string) (int, error) {
	counts := countWords(text)

	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM word_frequencies`); err != nil {
		return 0, fmt.Errorf("clear word frequencies: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO word_frequencies (word, count) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for word, count := range counts {
		if _, err := stmt.Exec(word, count); err != nil {
			return 0, fmt.Errorf("insert %q: %w", word, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return len(counts), nil
}

// LookupWord returns the stored count for a word, zero when absent.
func (s *Store) LookupWord(word string) (int, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	err = db.QueryRow(`SELECT count FROM word_frequencies WHERE word = ?`, normalizeWord(word)).Scan(&count)
	// Absent words are a zero result, not an error.
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup word: %w", err)
	}
	return count, nil
}

// TopWords returns the n most frequent words, ties broken alphabetically.
func (s *Store) TopWords(n int) ([]WordCount, error) {
	if n <= 0 {
		n = 10
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT word, count FROM word_frequencies ORDER BY count DESC, word ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query top words: %w", err)
	}
	defer rows.Close()

	var out []WordCount
	for rows.Next() {
		var wc WordCount
		if err := rows.Scan(&wc.Word, &wc.Count); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, wc)
	}
	return out, rows.Err()
}

// ClearWordFrequencies removes all rows. Clearing an empty table succeeds.
func (s *Store) ClearWordFrequencies() error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(`DELETE FROM word_frequencies`); err != nil {
		return fmt.Errorf("clear word frequencies: %w", err)
	}
	return nil
}

// countWords tokenizes text into lowercase words. Punctuation separates
// tokens; interior apostrophes and hyphens are kept.
func countWords(text string) map[string]int {
	counts := make(map[string]int)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
	for _, f := range fields {
		w := normalizeWord(f)
		if w == "" {
			continue
		}
		counts[w]++
	}
	return counts
}

func normalizeWord(w string) string {
	return strings.Trim(strings.ToLower(w), "'-")
}
