package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Transcription methods. Together with the model or engine name and the
// filename stem they fully determine an artifact path, so the comparison
// reporter needs no manifest.
const (
	MethodOCR          = "ocr"
	MethodLLMDirect    = "llm-direct"
	MethodLLMCorrected = "llm-corrected"
)

// Methods lists all transcription methods in pipeline order.
var Methods = []string{MethodOCR, MethodLLMDirect, MethodLLMCorrected}

// ArtifactPath returns results/<method>/<model-or-engine>/<stem>.txt under
// baseDir. The same inputs always produce the same path; reruns overwrite.
func ArtifactPath(baseDir, method, modelOrEngine, stem string) string {
	return filepath.Join(baseDir, "results", method, pathSafe(modelOrEngine), stem+".txt")
}

// WriteArtifact writes transcription text to path, creating parent
// directories as needed. An existing file is overwritten.
func WriteArtifact(path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// ReadArtifact loads an artifact. A missing file returns ("", false, nil).
func ReadArtifact(path string) (string, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read artifact: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), true, nil
}

// pathSafe replaces path separators in model names (e.g. "org/model") so they
// stay a single directory level.
func pathSafe(name string) string {
	return strings.ReplaceAll(name, "/", "-")
}

// ParseModels splits a comma-separated model list, trimming whitespace and
// dropping empty elements.
func ParseModels(s string) []string {
	var models []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}
