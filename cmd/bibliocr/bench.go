package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dkristoff/bibliocr/internal/llm"
	"github.com/dkristoff/bibliocr/internal/ocr"
	"github.com/dkristoff/bibliocr/internal/pipeline"
)

var (
	benchModels  string
	benchBaseDir string
)

var benchCmd = &cobra.Command{
	Use:   "bench <image-folder>",
	Short: "Run the OCR vs LLM comparison pipeline",
	Long: `Bench runs every supported image in the folder through Tesseract,
each model's direct transcription, and each model's OCR correction,
writing one artifact per combination under <base-dir>/results.`,
	Args: cobra.ExactArgs(1),
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchModels, "models", "", "comma-separated model names (e.g. gpt-4o,claude-3-5-sonnet-latest)")
	benchCmd.Flags().StringVar(&benchBaseDir, "base-dir", "", "artifact root (default: configured base dir)")
	rootCmd.AddCommand(benchCmd)
}

func runBench(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	baseDir := cfg.BaseDir
	if benchBaseDir != "" {
		baseDir = benchBaseDir
	}
	models := pipeline.ParseModels(benchModels)

	n, err := countImages(args[0])
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no supported images in %s", args[0])
	}

	// One OCR step plus a direct and a corrected step per model, per image.
	total := n * (1 + 2*len(models))
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("benchmarking"),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
	)

	runner := pipeline.NewRunner(ocr.NewTesseractEngine(cfg.OCRLanguages...), llm.NewClient(cfg), log)
	summary, err := runner.Run(cmd.Context(), args[0], models, baseDir, func(pipeline.Step) {
		bar.Add(1)
	})
	if err != nil {
		return err
	}

	ok, skipped, failed := summary.Counts()
	fmt.Printf("run %s: %d images, %d models\n", summary.RunID, summary.Images, len(summary.Models))
	color.Green("  %d ok", ok)
	if skipped > 0 {
		color.Yellow("  %d skipped", skipped)
	}
	if failed > 0 {
		color.Red("  %d failed", failed)
		for _, st := range summary.Steps {
			if st.Status == pipeline.StepFailed {
				fmt.Printf("    %s %s %s: %s\n", filepath.Base(st.Image), st.Method, st.Model, st.Detail)
			}
		}
	}
	return nil
}

func countImages(folder string) (int, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return 0, fmt.Errorf("read image folder: %w", err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && ocr.IsSupportedImage(e.Name()) {
			n++
		}
	}
	return n, nil
}
