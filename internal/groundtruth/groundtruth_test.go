package groundtruth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestForFile_KnownFormats(t *testing.T) {
	for _, name := range []string{"a.txt", "b.PDF", "c.docx", "d.md", "e.markdown", "f.html", "g.htm", "h.csv"} {
		if _, err := ForFile(name); err != nil {
			t.Errorf("ForFile(%q): %v", name, err)
		}
	}
	if _, err := ForFile("scan.png"); err == nil {
		t.Error("expected an error for an image file")
	}
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	text, found, err := Load(t.TempDir(), "nothing")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if found || text != "" {
		t.Errorf("found=%v text=%q, want absent", found, text)
	}
}

func TestLoad_ReadsByStem(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "page_001.txt", "reference text\n")

	text, found, err := Load(dir, "page_001")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !found {
		t.Fatal("expected the file to be found")
	}
	if text != "reference text\n" {
		t.Errorf("text = %q", text)
	}
}

func TestIngest_TextFile(t *testing.T) {
	srcDir, gtDir := t.TempDir(), t.TempDir()
	src := writeFile(t, srcDir, "page_007.txt", "  line one\nline two  \n")

	dest, err := Ingest(src, gtDir)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if dest != filepath.Join(gtDir, "page_007.txt") {
		t.Errorf("dest = %q", dest)
	}

	text, found, err := Load(gtDir, "page_007")
	if err != nil || !found {
		t.Fatalf("load after ingest: found=%v err=%v", found, err)
	}
	if text != "line one\nline two\n" {
		t.Errorf("text = %q", text)
	}
}

func TestIngest_EmptySourceFails(t *testing.T) {
	srcDir, gtDir := t.TempDir(), t.TempDir()
	src := writeFile(t, srcDir, "blank.txt", "   \n\t\n")
	if _, err := Ingest(src, gtDir); err == nil {
		t.Error("expected an error for a source with no text")
	}
}

func TestMarkdownExtractor_FlattensFormatting(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "doc.md", "# Heading\n\nSome *emphasized* text with [a link](http://x).\n\n```\ncode line\n```\n")

	text, err := (&MarkdownExtractor{}).Extract(src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, want := range []string{"Heading", "Some emphasized text with a link.", "code line"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	for _, reject := range []string{"#", "*", "]("} {
		if strings.Contains(text, reject) {
			t.Errorf("markup %q leaked into output:\n%s", reject, text)
		}
	}
}

func TestCSVExtractor_LabeledRowBlocks(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "catalog.csv", "lastname,title,publishyear\nWeber,Handschriften,1923\nBraun,Katalog,\n")

	text, err := (&CSVExtractor{}).Extract(src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	blocks := strings.Split(text, "\n\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 row blocks, got %d:\n%s", len(blocks), text)
	}
	if blocks[0] != "lastname: Weber, title: Handschriften, publishyear: 1923" {
		t.Errorf("first block = %q", blocks[0])
	}
	// Empty cells are dropped, not rendered as dangling labels.
	if strings.Contains(blocks[1], "publishyear") {
		t.Errorf("second block = %q", blocks[1])
	}
}

func TestCSVExtractor_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "empty.csv", "lastname,title\n")
	text, err := (&CSVExtractor{}).Extract(src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "" {
		t.Errorf("expected no text, got %q", text)
	}
}

func TestHTMLExtractor_SkipsChrome(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "page.html", `<html><head><title>T</title><style>p{}</style></head>
<body><nav>menu items</nav>
<h1>Catalog</h1>
<p>First <b>entry</b> text.</p>
<script>var x = 1;</script>
<footer>copyright</footer></body></html>`)

	text, err := (&HTMLExtractor{}).Extract(src)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Catalog") || !strings.Contains(text, "First entry text.") {
		t.Errorf("output missing body text:\n%s", text)
	}
	for _, reject := range []string{"menu items", "var x", "copyright", "p{}"} {
		if strings.Contains(text, reject) {
			t.Errorf("%q should have been skipped:\n%s", reject, text)
		}
	}
}
