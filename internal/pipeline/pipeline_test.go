package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dkristoff/bibliocr/internal/llm"
	"github.com/dkristoff/bibliocr/internal/ocr"
)

type fakeEngine struct {
	// failOn lists image basenames that fail recognition.
	failOn map[string]bool
	// emptyOn lists image basenames that recognize to empty text.
	emptyOn map[string]bool
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Recognize(ctx context.Context, imagePath string) (ocr.Result, error) {
	base := filepath.Base(imagePath)
	if e.failOn[base] {
		return ocr.Result{}, fmt.Errorf("cannot decode %s", base)
	}
	if e.emptyOn[base] {
		return ocr.Result{Stem: ocr.Stem(imagePath), Text: ""}, nil
	}
	return ocr.Result{Stem: ocr.Stem(imagePath), Text: "ocr text for " + base}, nil
}

type fakeTranscriber struct {
	// noCreds lists models with no provider credentials.
	noCreds map[string]bool
	// failOn lists models whose calls error.
	failOn map[string]bool
}

func (f *fakeTranscriber) TranscribeImage(ctx context.Context, model, imagePath string) (string, error) {
	if f.noCreds[model] {
		return "", fmt.Errorf("%s: %w", model, llm.ErrNoCredentials)
	}
	if f.failOn[model] {
		return "", fmt.Errorf("model %s unavailable", model)
	}
	return "direct by " + model, nil
}

func (f *fakeTranscriber) CorrectOCR(ctx context.Context, model, imagePath, ocrText string) (string, error) {
	if f.noCreds[model] {
		return "", fmt.Errorf("%s: %w", model, llm.ErrNoCredentials)
	}
	if f.failOn[model] {
		return "", fmt.Errorf("model %s unavailable", model)
	}
	return "corrected by " + model, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("img"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRun_ProducesAllArtifacts(t *testing.T) {
	images := writeImages(t, "page_002.png", "page_001.jpg", "notes.txt")
	baseDir := t.TempDir()

	runner := NewRunner(&fakeEngine{}, &fakeTranscriber{}, testLogger())
	sum, err := runner.Run(context.Background(), images, []string{"gpt-4o"}, baseDir, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Images != 2 {
		t.Errorf("images = %d, want 2 (notes.txt is not an image)", sum.Images)
	}
	if sum.RunID == "" {
		t.Error("missing run id")
	}
	ok, skipped, failed := sum.Counts()
	if ok != 6 || skipped != 0 || failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 6/0/0", ok, skipped, failed)
	}

	// Images are processed in name order.
	if sum.Steps[0].Image != "page_001.jpg" {
		t.Errorf("first step image = %s", sum.Steps[0].Image)
	}

	for _, check := range []struct{ method, variant, want string }{
		{MethodOCR, "fake", "ocr text for page_001.jpg"},
		{MethodLLMDirect, "gpt-4o", "direct by gpt-4o"},
		{MethodLLMCorrected, "gpt-4o", "corrected by gpt-4o"},
	} {
		text, found, err := ReadArtifact(ArtifactPath(baseDir, check.method, check.variant, "page_001"))
		if err != nil || !found {
			t.Fatalf("%s artifact: found=%v err=%v", check.method, found, err)
		}
		if text != check.want {
			t.Errorf("%s artifact = %q, want %q", check.method, text, check.want)
		}
	}
}

func TestRun_FailedImageDoesNotAbortBatch(t *testing.T) {
	images := writeImages(t, "bad.png", "good.png")
	baseDir := t.TempDir()

	engine := &fakeEngine{failOn: map[string]bool{"bad.png": true}}
	runner := NewRunner(engine, &fakeTranscriber{}, testLogger())
	sum, err := runner.Run(context.Background(), images, []string{"gpt-4o"}, baseDir, nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// bad.png: ocr failed, direct ok, corrected skipped (no draft).
	// good.png: all three ok.
	ok, skipped, failed := sum.Counts()
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if skipped != 1 {
		t.Errorf("skipped = %d, want 1", skipped)
	}
	if ok != 4 {
		t.Errorf("ok = %d, want 4", ok)
	}

	if _, found, _ := ReadArtifact(ArtifactPath(baseDir, MethodOCR, "fake", "good")); !found {
		t.Error("good.png should still have been processed")
	}
}

func TestRun_SkipsCorrectionWithoutOCRText(t *testing.T) {
	images := writeImages(t, "blank.png")

	engine := &fakeEngine{emptyOn: map[string]bool{"blank.png": true}}
	runner := NewRunner(engine, &fakeTranscriber{}, testLogger())
	sum, err := runner.Run(context.Background(), images, []string{"gpt-4o"}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var corrected *Step
	for i := range sum.Steps {
		if sum.Steps[i].Method == MethodLLMCorrected {
			corrected = &sum.Steps[i]
		}
	}
	if corrected == nil {
		t.Fatal("no corrected step recorded")
	}
	if corrected.Status != StepSkipped {
		t.Errorf("corrected status = %s, want skipped", corrected.Status)
	}
	if !strings.Contains(corrected.Detail, "no ocr text") {
		t.Errorf("detail = %q", corrected.Detail)
	}
}

func TestRun_CredentiallessModelSkippedForWholeRun(t *testing.T) {
	images := writeImages(t, "a.png", "b.png")

	tr := &fakeTranscriber{noCreds: map[string]bool{"claude-3-5-sonnet-latest": true}}
	runner := NewRunner(&fakeEngine{}, tr, testLogger())
	sum, err := runner.Run(context.Background(), images, []string{"claude-3-5-sonnet-latest", "gpt-4o"}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	ok, skipped, failed := sum.Counts()
	// 2 ocr + 4 gpt-4o steps succeed; all 4 claude steps are skips.
	if ok != 6 || skipped != 4 || failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 6/4/0", ok, skipped, failed)
	}
}

func TestRun_ModelErrorIsLocalToStep(t *testing.T) {
	images := writeImages(t, "a.png")

	tr := &fakeTranscriber{failOn: map[string]bool{"gpt-4o": true}}
	runner := NewRunner(&fakeEngine{}, tr, testLogger())
	sum, err := runner.Run(context.Background(), images, []string{"gpt-4o"}, t.TempDir(), nil)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	ok, _, failed := sum.Counts()
	if ok != 1 || failed != 2 {
		t.Errorf("counts ok=%d failed=%d, want 1/2", ok, failed)
	}
}

func TestRun_EmptyFolderIsAnError(t *testing.T) {
	runner := NewRunner(&fakeEngine{}, &fakeTranscriber{}, testLogger())
	if _, err := runner.Run(context.Background(), t.TempDir(), nil, t.TempDir(), nil); err == nil {
		t.Error("expected an error for a folder without images")
	}
}

func TestRun_OnStepCallback(t *testing.T) {
	images := writeImages(t, "a.png")

	var calls int
	runner := NewRunner(&fakeEngine{}, &fakeTranscriber{}, testLogger())
	sum, err := runner.Run(context.Background(), images, []string{"gpt-4o"}, t.TempDir(), func(Step) { calls++ })
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls != len(sum.Steps) {
		t.Errorf("callback fired %d times for %d steps", calls, len(sum.Steps))
	}
}

func TestStatus_EmptyBaseDir(t *testing.T) {
	report, err := Status(t.TempDir())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(report.Variants) != 0 {
		t.Errorf("variants = %v, want none", report.Variants)
	}
	if !strings.Contains(report.Render(), "No pipeline results") {
		t.Errorf("render = %q", report.Render())
	}
}

func TestStatus_CountsArtifacts(t *testing.T) {
	baseDir := t.TempDir()
	for _, p := range []string{
		ArtifactPath(baseDir, MethodOCR, "tesseract", "p1"),
		ArtifactPath(baseDir, MethodOCR, "tesseract", "p2"),
		ArtifactPath(baseDir, MethodLLMDirect, "gpt-4o", "p1"),
	} {
		if err := WriteArtifact(p, "x"); err != nil {
			t.Fatal(err)
		}
	}

	report, err := Status(baseDir)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if len(report.Variants) != 2 {
		t.Fatalf("variants = %d, want 2", len(report.Variants))
	}
	if report.Variants[0].Method != MethodOCR || report.Variants[0].Count != 2 {
		t.Errorf("ocr variant = %+v", report.Variants[0])
	}
	if got := report.Variants[0].Stems; len(got) != 2 || got[0] != "p1" {
		t.Errorf("stems = %v", got)
	}

	models, err := ModelsWithResults(baseDir)
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if len(models) != 1 || models[0] != "gpt-4o" {
		t.Errorf("models = %v, want [gpt-4o]", models)
	}
}
