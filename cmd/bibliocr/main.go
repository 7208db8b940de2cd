package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/dkristoff/bibliocr/internal/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "bibliocr",
	Short: "OCR and LLM transcription tooling for bibliographic scans",
	Long: `bibliocr transcribes scanned bibliography pages with Tesseract and
vision LLMs, benchmarks the two against ground truth, and keeps the
parsed entries in a local SQLite database. The serve command exposes
everything as MCP tools over stdio.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
}

func loadConfig() (config.Config, error) {
	return config.Load(cfgFile)
}

// newLogger writes to stderr. Stdout belongs to the MCP stdio transport,
// so nothing else in the process may print there.
func newLogger() *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		TimeFormat: time.TimeOnly,
	}))
}
