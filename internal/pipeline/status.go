package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// VariantStatus describes one results/<method>/<variant> directory.
type VariantStatus struct {
	Method  string   `json:"method"`
	Variant string   `json:"variant"`
	Count   int      `json:"count"`
	Stems   []string `json:"stems"`
}

// StatusReport summarizes which artifacts exist under a base directory.
type StatusReport struct {
	BaseDir  string          `json:"base_dir"`
	Variants []VariantStatus `json:"variants"`
}

// Status walks the results tree. A base directory with no results yields an
// empty report, not an error.
func Status(baseDir string) (*StatusReport, error) {
	report := &StatusReport{BaseDir: baseDir}

	for _, method := range Methods {
		methodDir := filepath.Join(baseDir, "results", method)
		variants, err := os.ReadDir(methodDir)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", methodDir, err)
		}
		for _, v := range variants {
			if !v.IsDir() {
				continue
			}
			stems, err := listStems(filepath.Join(methodDir, v.Name()))
			if err != nil {
				return nil, err
			}
			report.Variants = append(report.Variants, VariantStatus{
				Method:  method,
				Variant: v.Name(),
				Count:   len(stems),
				Stems:   stems,
			})
		}
	}
	return report, nil
}

// Render formats the report as human-readable text.
func (r *StatusReport) Render() string {
	if len(r.Variants) == 0 {
		return fmt.Sprintf("No pipeline results under %s.", r.BaseDir)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pipeline results under %s:\n", r.BaseDir))
	for _, v := range r.Variants {
		sb.WriteString(fmt.Sprintf("  %s/%s: %d transcription(s)\n", v.Method, v.Variant, v.Count))
		if len(v.Stems) > 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", strings.Join(v.Stems, ", ")))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

// ModelsWithResults lists every model that has LLM artifacts under baseDir.
func ModelsWithResults(baseDir string) ([]string, error) {
	report, err := Status(baseDir)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var models []string
	for _, v := range report.Variants {
		if v.Method == MethodOCR || seen[v.Variant] {
			continue
		}
		seen[v.Variant] = true
		models = append(models, v.Variant)
	}
	return models, nil
}

func listStems(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var stems []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		stems = append(stems, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(stems)
	return stems, nil
}
