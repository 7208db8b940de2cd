// Package groundtruth manages human-verified reference transcriptions. The
// canonical location is <ground-truth-dir>/<stem>.txt; ingestion converts
// source documents (txt, pdf, docx, md, html, csv) to plain text under that
// convention so the comparison reporter can align them by filename stem.
package groundtruth

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extractor converts one document format to plain text.
type Extractor interface {
	Extract(path string) (string, error)
}

// ForFile returns the extractor for a filename, by extension.
func ForFile(filename string) (Extractor, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return &TextExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: true}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported ground truth format: %s", filepath.Ext(filename))
	}
}

// Load reads the reference transcription for a filename stem. A missing file
// returns ("", false, nil) so callers can report "not available".
func Load(dir, stem string) (string, bool, error) {
	path := filepath.Join(dir, stem+".txt")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read ground truth: %w", err)
	}
	return string(data), true, nil
}

// Ingest converts a source document to plain text and writes it to the
// canonical location. Returns the destination path.
func Ingest(sourcePath, dir string) (string, error) {
	ex, err := ForFile(sourcePath)
	if err != nil {
		return "", err
	}
	text, err := ex.Extract(sourcePath)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", filepath.Base(sourcePath), err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no extractable text in %s", filepath.Base(sourcePath))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create ground truth dir: %w", err)
	}
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dest := filepath.Join(dir, stem+".txt")
	if err := os.WriteFile(dest, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write ground truth: %w", err)
	}
	return dest, nil
}
