package pipeline

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestArtifactPath_Deterministic(t *testing.T) {
	a := ArtifactPath("/data", MethodLLMDirect, "gpt-4o", "page_001")
	b := ArtifactPath("/data", MethodLLMDirect, "gpt-4o", "page_001")
	if a != b {
		t.Errorf("same inputs gave %q and %q", a, b)
	}
	want := filepath.Join("/data", "results", "llm-direct", "gpt-4o", "page_001.txt")
	if a != want {
		t.Errorf("path = %q, want %q", a, want)
	}
}

func TestArtifactPath_SlashInModelName(t *testing.T) {
	got := ArtifactPath("/data", MethodLLMDirect, "org/model", "p")
	want := filepath.Join("/data", "results", "llm-direct", "org-model", "p.txt")
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestWriteReadArtifact_RoundTrip(t *testing.T) {
	path := ArtifactPath(t.TempDir(), MethodOCR, "tesseract", "page")
	if err := WriteArtifact(path, "recognized text"); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, found, err := ReadArtifact(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !found || text != "recognized text" {
		t.Errorf("found=%v text=%q", found, text)
	}

	// Rerun semantics: same path, new content, no error.
	if err := WriteArtifact(path, "second run"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	text, _, _ = ReadArtifact(path)
	if text != "second run" {
		t.Errorf("after overwrite text = %q", text)
	}
}

func TestReadArtifact_MissingFile(t *testing.T) {
	text, found, err := ReadArtifact(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if found || text != "" {
		t.Errorf("found=%v text=%q, want absent", found, text)
	}
}

func TestParseModels(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"gpt-4o", []string{"gpt-4o"}},
		{" gpt-4o , claude-3-5-sonnet-latest ,", []string{"gpt-4o", "claude-3-5-sonnet-latest"}},
		{",,", nil},
	}
	for _, c := range cases {
		if got := ParseModels(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseModels(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNewRunID_UniqueAndSortable(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if len(a) != 26 || len(b) != 26 {
		t.Fatalf("lengths %d/%d, want 26", len(a), len(b))
	}
	if a == b {
		t.Error("two run IDs collided")
	}
	if b < a {
		t.Errorf("IDs not monotonic: %s then %s", a, b)
	}
}
