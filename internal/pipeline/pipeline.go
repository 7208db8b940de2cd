// Package pipeline sequences the three-way transcription comparison: OCR,
// direct multimodal LLM transcription, and LLM correction of the OCR draft.
// Processing is sequential and synchronous; every artifact attempt is recorded
// so an incomplete run stays introspectable.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/dkristoff/bibliocr/internal/llm"
	"github.com/dkristoff/bibliocr/internal/ocr"
)

// StepStatus classifies the outcome of a single artifact attempt.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepSkipped StepStatus = "skipped"
	StepFailed  StepStatus = "failed"
)

// Step records one artifact attempt. Model is empty for the OCR method.
type Step struct {
	Image  string     `json:"image"`
	Method string     `json:"method"`
	Model  string     `json:"model,omitempty"`
	Status StepStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
	Output string     `json:"output,omitempty"`
}

// Summary is the bookkeeping for one pipeline run.
type Summary struct {
	RunID    string    `json:"run_id"`
	BaseDir  string    `json:"base_dir"`
	Images   int       `json:"images"`
	Models   []string  `json:"models"`
	Steps    []Step    `json:"steps"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
}

// Counts tallies steps by outcome.
func (s *Summary) Counts() (ok, skipped, failed int) {
	for _, st := range s.Steps {
		switch st.Status {
		case StepOK:
			ok++
		case StepSkipped:
			skipped++
		case StepFailed:
			failed++
		}
	}
	return
}

// Runner drives the comparison pipeline over one image folder.
type Runner struct {
	engine ocr.Engine
	llm    llm.Transcriber
	log    *slog.Logger
}

func NewRunner(engine ocr.Engine, transcriber llm.Transcriber, log *slog.Logger) *Runner {
	return &Runner{engine: engine, llm: transcriber, log: log}
}

// Run processes every supported image in imageFolder, in name order, against
// every model. Per image it produces up to three artifacts under baseDir. A
// failed image or credential-less model is recorded and skipped, never fatal.
// The optional onStep callback fires after each artifact attempt.
func (r *Runner) Run(ctx context.Context, imageFolder string, models []string, baseDir string, onStep func(Step)) (*Summary, error) {
	images, err := listImages(imageFolder)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("no supported images in %s", imageFolder)
	}

	sum := &Summary{
		RunID:   NewRunID(),
		BaseDir: baseDir,
		Images:  len(images),
		Models:  models,
		Started: time.Now(),
	}
	log := r.log.With("run_id", sum.RunID)
	log.Info("pipeline started", "images", len(images), "models", models)

	// A model whose provider has no credentials is skipped for the whole run.
	noCreds := make(map[string]string)

	record := func(st Step) {
		sum.Steps = append(sum.Steps, st)
		if onStep != nil {
			onStep(st)
		}
	}

	for _, imagePath := range images {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		stem := ocr.Stem(imagePath)
		base := filepath.Base(imagePath)

		// Step 1: OCR.
		ocrText := ""
		res, err := r.engine.Recognize(ctx, imagePath)
		ocrStep := Step{Image: base, Method: MethodOCR}
		if err != nil {
			log.Warn("ocr failed", "image", base, "error", err)
			ocrStep.Status = StepFailed
			ocrStep.Detail = err.Error()
		} else {
			ocrText = res.Text
			path := ArtifactPath(baseDir, MethodOCR, r.engine.Name(), stem)
			if err := WriteArtifact(path, ocrText); err != nil {
				ocrStep.Status = StepFailed
				ocrStep.Detail = err.Error()
			} else {
				ocrStep.Status = StepOK
				ocrStep.Output = path
			}
		}
		record(ocrStep)

		for _, model := range models {
			// Step 2: direct multimodal transcription.
			direct := Step{Image: base, Method: MethodLLMDirect, Model: model}
			if reason, skip := noCreds[model]; skip {
				direct.Status = StepSkipped
				direct.Detail = reason
			} else {
				text, err := r.llm.TranscribeImage(ctx, model, imagePath)
				switch {
				case errors.Is(err, llm.ErrNoCredentials):
					noCreds[model] = err.Error()
					log.Warn("model skipped", "model", model, "reason", err)
					direct.Status = StepSkipped
					direct.Detail = err.Error()
				case err != nil:
					log.Warn("direct transcription failed", "image", base, "model", model, "error", err)
					direct.Status = StepFailed
					direct.Detail = err.Error()
				default:
					path := ArtifactPath(baseDir, MethodLLMDirect, model, stem)
					if err := WriteArtifact(path, text); err != nil {
						direct.Status = StepFailed
						direct.Detail = err.Error()
					} else {
						direct.Status = StepOK
						direct.Output = path
					}
				}
			}
			record(direct)

			// Step 3: OCR-assisted correction. Needs an OCR draft.
			corrected := Step{Image: base, Method: MethodLLMCorrected, Model: model}
			switch {
			case noCreds[model] != "":
				corrected.Status = StepSkipped
				corrected.Detail = noCreds[model]
			case ocrText == "":
				corrected.Status = StepSkipped
				corrected.Detail = "no ocr text to correct"
			default:
				text, err := r.llm.CorrectOCR(ctx, model, imagePath, ocrText)
				switch {
				case errors.Is(err, llm.ErrNoCredentials):
					noCreds[model] = err.Error()
					corrected.Status = StepSkipped
					corrected.Detail = err.Error()
				case err != nil:
					log.Warn("correction failed", "image", base, "model", model, "error", err)
					corrected.Status = StepFailed
					corrected.Detail = err.Error()
				default:
					path := ArtifactPath(baseDir, MethodLLMCorrected, model, stem)
					if err := WriteArtifact(path, text); err != nil {
						corrected.Status = StepFailed
						corrected.Detail = err.Error()
					} else {
						corrected.Status = StepOK
						corrected.Output = path
					}
				}
			}
			record(corrected)
		}
	}

	sum.Finished = time.Now()
	ok, skipped, failed := sum.Counts()
	log.Info("pipeline finished", "ok", ok, "skipped", skipped, "failed", failed,
		"duration_ms", sum.Finished.Sub(sum.Started).Milliseconds())
	return sum, nil
}

// listImages returns the supported image files in a folder, sorted by name.
func listImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read image folder: %w", err)
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !ocr.IsSupportedImage(e.Name()) {
			continue
		}
		images = append(images, filepath.Join(folder, e.Name()))
	}
	sort.Strings(images)
	return images, nil
}
