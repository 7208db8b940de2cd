package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkristoff/bibliocr/internal/pipeline"
)

func setupArtifacts(t *testing.T) (baseDir, gtDir string) {
	t.Helper()
	baseDir, gtDir = t.TempDir(), t.TempDir()

	if err := os.WriteFile(filepath.Join(gtDir, "page_001.txt"), []byte("the quick brown fox\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	artifacts := []struct{ method, variant, text string }{
		{pipeline.MethodOCR, "tesseract", "the qu1ck brown fox"},
		{pipeline.MethodLLMDirect, "gpt-4o", "the quick brown fox"},
		{pipeline.MethodLLMCorrected, "gpt-4o", "the quick brown fox"},
	}
	for _, a := range artifacts {
		path := pipeline.ArtifactPath(baseDir, a.method, a.variant, "page_001")
		if err := pipeline.WriteArtifact(path, a.text); err != nil {
			t.Fatal(err)
		}
	}
	return baseDir, gtDir
}

func TestCompare_AllVariantsPresent(t *testing.T) {
	baseDir, gtDir := setupArtifacts(t)

	cmp, err := Compare(baseDir, gtDir, "page_001", "tesseract", []string{"gpt-4o"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if !cmp.HasGroundTruth {
		t.Fatal("ground truth should have been found")
	}
	if len(cmp.Variants) != 3 {
		t.Fatalf("variants = %d, want 3", len(cmp.Variants))
	}

	ocrVar := cmp.Variants[0]
	if !ocrVar.Available || ocrVar.Metrics.EditDistance == 0 {
		t.Errorf("ocr variant = %+v, want available with errors", ocrVar)
	}
	direct := cmp.Variants[1]
	if direct.Metrics.WordAccuracy != 1 {
		t.Errorf("direct word accuracy = %f, want 1", direct.Metrics.WordAccuracy)
	}
}

func TestCompare_MissingVariantIsNotAvailable(t *testing.T) {
	baseDir, gtDir := setupArtifacts(t)

	cmp, err := Compare(baseDir, gtDir, "page_001", "tesseract", []string{"gpt-4o", "never-ran"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, v := range cmp.Variants {
		if v.Model == "never-ran" && v.Available {
			t.Errorf("variant %s/%s should not be available", v.Method, v.Model)
		}
	}
	if !strings.Contains(cmp.Markdown(), "not available") {
		t.Error("markdown should mark missing variants")
	}
}

func TestCompare_MissingGroundTruth(t *testing.T) {
	baseDir, _ := setupArtifacts(t)

	cmp, err := Compare(baseDir, t.TempDir(), "page_001", "tesseract", []string{"gpt-4o"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if cmp.HasGroundTruth {
		t.Fatal("no ground truth dir was populated")
	}
	md := cmp.Markdown()
	if !strings.Contains(md, "not available") {
		t.Errorf("markdown should call out missing ground truth:\n%s", md)
	}
	// Artifacts are still listed even without metrics.
	if !strings.Contains(md, "tesseract") || !strings.Contains(md, "gpt-4o") {
		t.Errorf("markdown missing variants:\n%s", md)
	}
}

func TestMarkdown_ContainsMetricsTable(t *testing.T) {
	baseDir, gtDir := setupArtifacts(t)
	cmp, err := Compare(baseDir, gtDir, "page_001", "tesseract", []string{"gpt-4o"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	md := cmp.Markdown()
	for _, want := range []string{"# Comparison: page_001", "| Method |", "| ocr | tesseract |", "100.0%"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if !strings.Contains(md, "[-") {
		t.Errorf("markdown missing diff markers:\n%s", md)
	}
}

func TestHTML_RendersTable(t *testing.T) {
	baseDir, gtDir := setupArtifacts(t)
	cmp, err := Compare(baseDir, gtDir, "page_001", "tesseract", []string{"gpt-4o"})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	out, err := cmp.HTML()
	if err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(string(out), "<table>") {
		t.Errorf("html output missing table:\n%s", out)
	}
}
