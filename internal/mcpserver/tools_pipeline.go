package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkristoff/bibliocr/internal/groundtruth"
	"github.com/dkristoff/bibliocr/internal/pipeline"
	"github.com/dkristoff/bibliocr/internal/report"
)

func (s *Server) registerPipelineTools() {
	s.mcp.AddTool(
		mcp.NewTool("run_comparison_pipeline",
			mcp.WithDescription("Run OCR, direct LLM transcription and OCR-assisted LLM correction over a folder of images, writing results under a fixed directory convention."),
			mcp.WithString("image_folder", mcp.Required(), mcp.Description("Folder containing the images to process")),
			mcp.WithString("models", mcp.Required(), mcp.Description("Comma-separated model identifiers, e.g. gpt-4o,claude-sonnet-4-5")),
			mcp.WithString("base_dir", mcp.Description("Base directory for results (default: configured base dir)")),
		),
		s.handleRunPipeline,
	)

	s.mcp.AddTool(
		mcp.NewTool("pipeline_status",
			mcp.WithDescription("Report which transcription artifacts exist under the results directory."),
			mcp.WithString("base_dir", mcp.Description("Base directory to inspect (default: configured base dir)")),
		),
		s.handlePipelineStatus,
	)

	s.mcp.AddTool(
		mcp.NewTool("compare_transcriptions",
			mcp.WithDescription("Compare the transcription variants of one page against its ground truth. Absent variants are reported as not available."),
			mcp.WithString("filename_stem", mcp.Required(), mcp.Description("Image filename without extension")),
			mcp.WithString("models", mcp.Description("Comma-separated models to include (default: every model with results)")),
			mcp.WithString("base_dir", mcp.Description("Base directory holding results (default: configured base dir)")),
		),
		s.handleCompare,
	)

	s.mcp.AddTool(
		mcp.NewTool("extract_ground_truth",
			mcp.WithDescription("Convert a reference document (txt, pdf, docx, md, html, csv) to plain text under the ground-truth directory."),
			mcp.WithString("source_path", mcp.Required(), mcp.Description("Path to the reference document")),
		),
		s.handleExtractGroundTruth,
	)
}

func (s *Server) handleRunPipeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imageFolder, err := req.RequireString("image_folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	modelsArg, err := req.RequireString("models")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	models := pipeline.ParseModels(modelsArg)
	if len(models) == 0 {
		return mcp.NewToolResultError("no models given"), nil
	}
	baseDir := req.GetString("base_dir", s.cfg.BaseDir)

	sum, err := s.runner.Run(ctx, imageFolder, models, baseDir, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pipeline error: %v", err)), nil
	}
	return mcp.NewToolResultText(renderSummary(sum)), nil
}

func (s *Server) handlePipelineStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	baseDir := req.GetString("base_dir", s.cfg.BaseDir)
	rep, err := pipeline.Status(baseDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status error: %v", err)), nil
	}
	return mcp.NewToolResultText(rep.Render()), nil
}

func (s *Server) handleCompare(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stem, err := req.RequireString("filename_stem")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	baseDir := req.GetString("base_dir", s.cfg.BaseDir)

	models := pipeline.ParseModels(req.GetString("models", ""))
	if len(models) == 0 {
		models, err = pipeline.ModelsWithResults(baseDir)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compare error: %v", err)), nil
		}
	}

	cmp, err := report.Compare(baseDir, s.cfg.GroundTruthDir, stem, s.engine.Name(), models)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("compare error: %v", err)), nil
	}
	return mcp.NewToolResultText(cmp.Markdown()), nil
}

func (s *Server) handleExtractGroundTruth(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sourcePath, err := req.RequireString("source_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dest, err := groundtruth.Ingest(sourcePath, s.cfg.GroundTruthDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ground truth error: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Ground truth saved to %s", dest)), nil
}

func renderSummary(sum *pipeline.Summary) string {
	ok, skipped, failed := sum.Counts()
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Pipeline run %s completed.\n", sum.RunID))
	sb.WriteString(fmt.Sprintf("Images: %d  Models: %s\n", sum.Images, strings.Join(sum.Models, ", ")))
	sb.WriteString(fmt.Sprintf("Artifacts: %d ok, %d skipped, %d failed\n", ok, skipped, failed))
	if skipped+failed > 0 {
		sb.WriteString("Incomplete steps:\n")
		for _, st := range sum.Steps {
			if st.Status == pipeline.StepOK {
				continue
			}
			label := st.Method
			if st.Model != "" {
				label += "/" + st.Model
			}
			sb.WriteString(fmt.Sprintf("  %s %s [%s]: %s\n", st.Image, label, st.Status, st.Detail))
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
