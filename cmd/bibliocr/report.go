package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dkristoff/bibliocr/internal/pipeline"
	"github.com/dkristoff/bibliocr/internal/report"
)

var (
	reportModels  string
	reportBaseDir string
)

var reportCmd = &cobra.Command{
	Use:   "report <stem>",
	Short: "Print a comparison report for one page",
	Long: `Report aligns every artifact for the given filename stem against its
ground truth file and prints accuracy metrics plus diffs.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportModels, "models", "", "comma-separated model names (default: every model with results)")
	reportCmd.Flags().StringVar(&reportBaseDir, "base-dir", "", "artifact root (default: configured base dir)")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	baseDir := cfg.BaseDir
	if reportBaseDir != "" {
		baseDir = reportBaseDir
	}

	models := pipeline.ParseModels(reportModels)
	if len(models) == 0 {
		models, err = pipeline.ModelsWithResults(baseDir)
		if err != nil {
			return err
		}
	}

	cmp, err := report.Compare(baseDir, cfg.GroundTruthDir, args[0], "tesseract", models)
	if err != nil {
		return err
	}

	printComparison(cmp)
	return nil
}

func printComparison(c *report.Comparison) {
	color.New(color.FgCyan, color.Bold).Printf("Comparison: %s\n\n", c.Stem)
	if !c.HasGroundTruth {
		color.Yellow("no ground truth for %s, metrics unavailable\n", c.Stem)
	}

	for _, v := range c.Variants {
		name := v.Method
		if v.Model != "" {
			name += "/" + v.Model
		}
		if !v.Available {
			fmt.Printf("  %-40s %s\n", name, color.YellowString("not available"))
			continue
		}
		if !c.HasGroundTruth {
			fmt.Printf("  %-40s present\n", name)
			continue
		}
		fmt.Printf("  %-40s word %s  char %s  edits %d\n",
			name,
			accuracyColor(v.Metrics.WordAccuracy),
			accuracyColor(v.Metrics.CharSimilarity),
			v.Metrics.EditDistance)
	}

	if c.HasGroundTruth {
		for _, v := range c.Variants {
			if !v.Available {
				continue
			}
			fmt.Println()
			color.New(color.Bold).Printf("diff vs ground truth: %s/%s\n", v.Method, v.Model)
			fmt.Println(strings.TrimSpace(report.DiffText(c.GroundTruth, v.Text)))
		}
	}
}

func accuracyColor(v float64) string {
	s := fmt.Sprintf("%5.1f%%", v*100)
	switch {
	case v >= 0.9:
		return color.GreenString(s)
	case v >= 0.7:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}
