// Package ocr wraps an OCR engine behind a small interface so the pipeline and
// tests can swap the Tesseract binding for a fake.
package ocr

import (
	"context"
	"path/filepath"
	"strings"
)

// Result holds the recognized text for one image.
type Result struct {
	// Stem is the source image filename without its extension.
	Stem string
	// Text is the linearized recognized text, trimmed of surrounding whitespace.
	Text string
}

// Engine recognizes text in a single image file.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, imagePath string) (Result, error)
}

// supportedExtensions lists the raster formats accepted for OCR input.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tiff": true,
	".gif":  true,
}

// IsSupportedImage reports whether a filename has a recognized image extension.
// Matching is case-insensitive.
func IsSupportedImage(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Stem returns the filename without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
