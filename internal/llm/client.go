// Package llm adapts hosted completion APIs for image transcription. Providers
// are selected per model identifier; a model whose provider has no credentials
// is reported via ErrNoCredentials so batch callers can skip it.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/dkristoff/bibliocr/internal/config"
)

// ErrNoCredentials indicates the provider for a requested model has no API key
// configured. Callers skip that model rather than failing the batch.
var ErrNoCredentials = errors.New("no credentials for provider")

// Transcriber is the surface the pipeline depends on. *Client implements it;
// tests substitute a fake.
type Transcriber interface {
	TranscribeImage(ctx context.Context, model, imagePath string) (string, error)
	CorrectOCR(ctx context.Context, model, imagePath, ocrText string) (string, error)
}

// Client routes transcription requests to the provider matching the model name.
type Client struct {
	cfg   config.Config
	Stats *Stats
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:   cfg,
		Stats: NewStats(time.Hour),
	}
}

type provider string

const (
	providerOpenAI    provider = "openai"
	providerAnthropic provider = "anthropic"
	providerOllama    provider = "ollama"
)

// providerFor maps a model identifier to its hosting provider. Unknown names
// fall through to a local Ollama server, which needs no API key.
func providerFor(model string) provider {
	switch {
	case strings.HasPrefix(model, "gpt-"), strings.HasPrefix(model, "o1"):
		return providerOpenAI
	case strings.HasPrefix(model, "claude-"):
		return providerAnthropic
	default:
		return providerOllama
	}
}

// newModel constructs a langchaingo model client, or ErrNoCredentials when the
// provider's key is absent from the environment.
func (c *Client) newModel(model string) (llms.Model, error) {
	switch providerFor(model) {
	case providerOpenAI:
		if c.cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: openai (model %s)", ErrNoCredentials, model)
		}
		return openai.New(openai.WithToken(c.cfg.OpenAIAPIKey), openai.WithModel(model))
	case providerAnthropic:
		if c.cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: anthropic (model %s)", ErrNoCredentials, model)
		}
		return anthropic.New(anthropic.WithToken(c.cfg.AnthropicAPIKey), anthropic.WithModel(model))
	default:
		return ollama.New(ollama.WithModel(model), ollama.WithServerURL(c.cfg.OllamaHost))
	}
}

// TranscribeImage sends the image directly to a multimodal model and returns
// the transcription text.
func (c *Client) TranscribeImage(ctx context.Context, model, imagePath string) (string, error) {
	data, mime, err := readImage(imagePath)
	if err != nil {
		return "", err
	}
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mime, data),
				llms.TextPart(transcribePrompt),
			},
		},
	}
	return c.generate(ctx, model, content)
}

// CorrectOCR asks the model to repair an OCR draft. The image is attached when
// available so multimodal models can consult it.
func (c *Client) CorrectOCR(ctx context.Context, model, imagePath, ocrText string) (string, error) {
	parts := []llms.ContentPart{}
	if imagePath != "" {
		data, mime, err := readImage(imagePath)
		if err != nil {
			return "", err
		}
		parts = append(parts, llms.BinaryPart(mime, data))
	}
	parts = append(parts, llms.TextPart(buildCorrectionPrompt(ocrText)))

	content := []llms.MessageContent{
		{Role: llms.ChatMessageTypeHuman, Parts: parts},
	}
	return c.generate(ctx, model, content)
}

func (c *Client) generate(ctx context.Context, model string, content []llms.MessageContent) (string, error) {
	m, err := c.newModel(model)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	resp, err := m.GenerateContent(callCtx, content,
		llms.WithMaxTokens(c.cfg.LLMMaxTokens),
		llms.WithTemperature(c.cfg.LLMTemperature),
	)
	c.Stats.Record(time.Since(start).Milliseconds())
	if err != nil {
		return "", fmt.Errorf("model %s: %w", model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %s: empty response", model)
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".gif":  "image/gif",
}

func readImage(path string) ([]byte, string, error) {
	mime, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, "", fmt.Errorf("unsupported image format: %s", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	return data, mime, nil
}
