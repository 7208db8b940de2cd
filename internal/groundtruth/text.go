package groundtruth

import (
	"fmt"
	"os"
)

// TextExtractor passes plain text files through unchanged.
type TextExtractor struct{}

func (e *TextExtractor) Extract(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	return string(data), nil
}
