package mcpserver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkristoff/bibliocr/internal/ocr"
)

func (s *Server) registerOCRTools() {
	s.mcp.AddTool(
		mcp.NewTool("ocr_image_to_text",
			mcp.WithDescription("Perform OCR on an image file and save the transcription to a text file."),
			mcp.WithString("image_path", mcp.Required(), mcp.Description("Path to the image file to process")),
			mcp.WithString("output_folder", mcp.Description("Folder where transcription text files are saved (default: transcriptions)")),
		),
		s.handleOCRImage,
	)

	s.mcp.AddTool(
		mcp.NewTool("batch_ocr_folder",
			mcp.WithDescription("OCR every supported image in a folder (jpg, jpeg, png, bmp, tiff, gif) and save transcriptions."),
			mcp.WithString("image_folder", mcp.Required(), mcp.Description("Folder containing images to process")),
			mcp.WithString("output_folder", mcp.Description("Folder where transcription text files are saved (default: transcriptions)")),
		),
		s.handleBatchOCR,
	)

	s.mcp.AddTool(
		mcp.NewTool("llm_transcribe_image",
			mcp.WithDescription("Transcribe an image with a multimodal LLM (no OCR) and save the result."),
			mcp.WithString("image_path", mcp.Required(), mcp.Description("Path to the image file to transcribe")),
			mcp.WithString("model", mcp.Required(), mcp.Description("Model identifier, e.g. gpt-4o or claude-sonnet-4-5")),
			mcp.WithString("output_folder", mcp.Description("Folder where transcription text files are saved (default: transcriptions)")),
		),
		s.handleLLMTranscribe,
	)
}

func (s *Server) handleOCRImage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imagePath, err := req.RequireString("image_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputFolder := req.GetString("output_folder", s.cfg.TranscriptsDir)

	res, err := s.engine.Recognize(ctx, imagePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error processing %s: %v", imagePath, err)), nil
	}

	outputPath, err := writeTranscription(outputFolder, res.Stem+"_transcription.txt", res.Text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully processed %s. Transcription saved to %s", imagePath, outputPath)), nil
}

func (s *Server) handleBatchOCR(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imageFolder, err := req.RequireString("image_folder")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputFolder := req.GetString("output_folder", s.cfg.TranscriptsDir)

	images, err := supportedImages(imageFolder)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error: image folder not found at %s", imageFolder)), nil
	}

	var processed, failed []string
	for _, imagePath := range images {
		res, err := s.engine.Recognize(ctx, imagePath)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", imagePath, err))
			continue
		}
		outputPath, err := writeTranscription(outputFolder, res.Stem+"_transcription.txt", res.Text)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", imagePath, err))
			continue
		}
		processed = append(processed, outputPath)
	}

	var sb strings.Builder
	sb.WriteString("Batch OCR completed!\n")
	sb.WriteString(fmt.Sprintf("Successfully processed: %d files\n", len(processed)))
	if len(failed) > 0 {
		sb.WriteString(fmt.Sprintf("Failed to process: %d files\n", len(failed)))
		sb.WriteString("Failed files:\n" + strings.Join(failed, "\n"))
	}
	return mcp.NewToolResultText(strings.TrimRight(sb.String(), "\n")), nil
}

func (s *Server) handleLLMTranscribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	imagePath, err := req.RequireString("image_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	model, err := req.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outputFolder := req.GetString("output_folder", s.cfg.TranscriptsDir)

	text, err := s.llm.TranscribeImage(ctx, model, imagePath)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("error transcribing %s with %s: %v", imagePath, model, err)), nil
	}

	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	outputPath, err := writeTranscription(outputFolder, fmt.Sprintf("%s_%s.txt", stem, model), text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Successfully transcribed %s with %s. Saved to %s", imagePath, model, outputPath)), nil
}

func writeTranscription(folder, filename, text string) (string, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}
	outputPath := filepath.Join(folder, filename)
	if err := os.WriteFile(outputPath, []byte(text+"\n"), 0o644); err != nil {
		return "", fmt.Errorf("write transcription: %w", err)
	}
	return outputPath, nil
}

func supportedImages(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
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
