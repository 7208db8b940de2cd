package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Directory layout
	BaseDir        string
	TranscriptsDir string
	GroundTruthDir string

	// Database
	DBPath string

	// OCR
	OCRLanguages []string

	// LLM providers
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string

	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     time.Duration

	// HTTP status API
	HTTPAddr   string
	HTTPAPIKey string
}

// fileConfig is the optional YAML overlay. Env vars win over the file.
type fileConfig struct {
	BaseDir        string   `yaml:"base_dir"`
	TranscriptsDir string   `yaml:"transcripts_dir"`
	GroundTruthDir string   `yaml:"ground_truth_dir"`
	DBPath         string   `yaml:"db_path"`
	OCRLanguages   []string `yaml:"ocr_languages"`
	LLM            struct {
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
		Timeout     string  `yaml:"timeout"`
	} `yaml:"llm"`
	HTTP struct {
		Addr   string `yaml:"addr"`
		APIKey string `yaml:"api_key"`
	} `yaml:"http"`
}

// Load builds the configuration from an optional YAML file and the environment.
func Load(path string) (Config, error) {
	cfg := Config{
		BaseDir:        ".",
		TranscriptsDir: "transcriptions",
		GroundTruthDir: filepath.Join("data", "ground-truth", "txt"),
		DBPath:         "bibliocr.db",
		OCRLanguages:   []string{"eng"},
		LLMMaxTokens:   4096,
		LLMTemperature: 0,
		LLMTimeout:     120 * time.Second,
	}

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if fc.BaseDir != "" {
		cfg.BaseDir = fc.BaseDir
	}
	if fc.TranscriptsDir != "" {
		cfg.TranscriptsDir = fc.TranscriptsDir
	}
	if fc.GroundTruthDir != "" {
		cfg.GroundTruthDir = fc.GroundTruthDir
	}
	if fc.DBPath != "" {
		cfg.DBPath = fc.DBPath
	}
	if len(fc.OCRLanguages) > 0 {
		cfg.OCRLanguages = fc.OCRLanguages
	}
	if fc.LLM.MaxTokens > 0 {
		cfg.LLMMaxTokens = fc.LLM.MaxTokens
	}
	if fc.LLM.Temperature > 0 {
		cfg.LLMTemperature = fc.LLM.Temperature
	}
	if fc.LLM.Timeout != "" {
		d, err := time.ParseDuration(fc.LLM.Timeout)
		if err != nil {
			return fmt.Errorf("parse llm timeout: %w", err)
		}
		cfg.LLMTimeout = d
	}
	if fc.HTTP.Addr != "" {
		cfg.HTTPAddr = fc.HTTP.Addr
	}
	if fc.HTTP.APIKey != "" {
		cfg.HTTPAPIKey = fc.HTTP.APIKey
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.BaseDir = envOr("BIBLIOCR_BASE_DIR", cfg.BaseDir)
	cfg.TranscriptsDir = envOr("BIBLIOCR_TRANSCRIPTS_DIR", cfg.TranscriptsDir)
	cfg.GroundTruthDir = envOr("BIBLIOCR_GROUND_TRUTH_DIR", cfg.GroundTruthDir)
	cfg.DBPath = envOr("BIBLIOCR_DB_PATH", cfg.DBPath)

	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	cfg.OllamaHost = envOr("OLLAMA_HOST", "http://localhost:11434")

	cfg.LLMMaxTokens = envInt("BIBLIOCR_LLM_MAX_TOKENS", cfg.LLMMaxTokens)
	cfg.LLMTimeout = envDuration("BIBLIOCR_LLM_TIMEOUT", cfg.LLMTimeout)

	cfg.HTTPAddr = envOr("BIBLIOCR_HTTP_ADDR", cfg.HTTPAddr)
	cfg.HTTPAPIKey = envOr("BIBLIOCR_HTTP_API_KEY", cfg.HTTPAPIKey)
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.LLMMaxTokens <= 0 {
		return fmt.Errorf("llm max tokens must be positive")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("llm timeout must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
