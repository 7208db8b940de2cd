// Package report aligns transcription variants against ground truth and
// renders a side-by-side comparison. A variant that was never produced is
// reported as not available, never as an error.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dkristoff/bibliocr/internal/groundtruth"
	"github.com/dkristoff/bibliocr/internal/pipeline"
)

// Variant is one transcription of a page by a particular method and model.
type Variant struct {
	Method    string  `json:"method"`
	Model     string  `json:"model"`
	Available bool    `json:"available"`
	Text      string  `json:"text,omitempty"`
	Metrics   Metrics `json:"metrics,omitempty"`
}

// Comparison is the full report for one filename stem.
type Comparison struct {
	Stem           string    `json:"stem"`
	GroundTruth    string    `json:"ground_truth,omitempty"`
	HasGroundTruth bool      `json:"has_ground_truth"`
	OCREngine      string    `json:"ocr_engine"`
	Variants       []Variant `json:"variants"`
}

// Compare loads ground truth and the artifacts for stem. models selects which
// LLM variants to look up; ocrEngine names the OCR artifact directory.
func Compare(baseDir, groundTruthDir, stem, ocrEngine string, models []string) (*Comparison, error) {
	cmp := &Comparison{Stem: stem, OCREngine: ocrEngine}

	gt, found, err := groundtruth.Load(groundTruthDir, stem)
	if err != nil {
		return nil, err
	}
	cmp.GroundTruth = strings.TrimSpace(gt)
	cmp.HasGroundTruth = found

	load := func(method, model string) error {
		v := Variant{Method: method, Model: model}
		text, ok, err := pipeline.ReadArtifact(pipeline.ArtifactPath(baseDir, method, model, stem))
		if err != nil {
			return err
		}
		v.Available = ok
		if ok {
			v.Text = text
			if cmp.HasGroundTruth {
				v.Metrics = Score(cmp.GroundTruth, text)
			}
		}
		cmp.Variants = append(cmp.Variants, v)
		return nil
	}

	if err := load(pipeline.MethodOCR, ocrEngine); err != nil {
		return nil, err
	}
	for _, model := range models {
		if err := load(pipeline.MethodLLMDirect, model); err != nil {
			return nil, err
		}
		if err := load(pipeline.MethodLLMCorrected, model); err != nil {
			return nil, err
		}
	}
	return cmp, nil
}

// Markdown renders the comparison as a markdown report.
func (c *Comparison) Markdown() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Comparison: %s\n\n", c.Stem))

	if !c.HasGroundTruth {
		sb.WriteString("Ground truth: **not available**, so no accuracy metrics.\n\n")
	}

	sb.WriteString("| Method | Model | Status | Word acc. | Char sim. | Edit dist. |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, v := range c.Variants {
		if !v.Available {
			sb.WriteString(fmt.Sprintf("| %s | %s | not available | n/a | n/a | n/a |\n", v.Method, v.Model))
			continue
		}
		if !c.HasGroundTruth {
			sb.WriteString(fmt.Sprintf("| %s | %s | present | n/a | n/a | n/a |\n", v.Method, v.Model))
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | present | %.1f%% | %.1f%% | %d |\n",
			v.Method, v.Model, v.Metrics.WordAccuracy*100, v.Metrics.CharSimilarity*100, v.Metrics.EditDistance))
	}
	sb.WriteString("\n")

	if c.HasGroundTruth {
		for _, v := range c.Variants {
			if !v.Available {
				continue
			}
			sb.WriteString(fmt.Sprintf("## Diff vs ground truth: %s/%s\n\n", v.Method, v.Model))
			sb.WriteString("```\n")
			sb.WriteString(DiffText(c.GroundTruth, v.Text))
			sb.WriteString("\n```\n\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// HTML renders the markdown report to HTML.
func (c *Comparison) HTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(c.Markdown()), &buf); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}
