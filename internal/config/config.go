// Package config loads the YAML application configuration, applies
// defaults and RAGQA_* environment overrides, and validates the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// OpenAIEmbedderConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbedderConfig struct {
	BaseURL    string `yaml:"base_url" validate:"omitempty,url"`
	APIKeyEnv  string `yaml:"api_key_env"`
	Model      string `yaml:"model"`
	BatchSize  int    `yaml:"batch_size" validate:"gte=0"`
	MaxRetries int    `yaml:"max_retries" validate:"gte=0,lte=10"`
}

// APIKey reads the key from the configured environment variable.
func (c OpenAIEmbedderConfig) APIKey() string { return os.Getenv(c.APIKeyEnv) }

// EmbedderConfig selects and configures the text embedder implementation.
type EmbedderConfig struct {
	Type        string               `yaml:"type" validate:"oneof=hashing openai"`
	Dimension   int                  `yaml:"dimension" validate:"gt=0"`
	TimeoutSecs int                  `yaml:"timeout_secs" validate:"gte=0"`
	OpenAI      OpenAIEmbedderConfig `yaml:"openai"`
}

func (c EmbedderConfig) Timeout() time.Duration { return seconds(c.TimeoutSecs) }

// ChunkerConfig configures how documents are split into word windows.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size" validate:"gt=0"`
	Overlap   int `yaml:"overlap" validate:"gte=0,ltfield=ChunkSize"`
}

type RetrievalConfig struct {
	TopK int `yaml:"top_k" validate:"gt=0"`
}

// OpenAIGeneratorConfig configures the chat completion generator.
type OpenAIGeneratorConfig struct {
	BaseURL     string  `yaml:"base_url" validate:"omitempty,url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `yaml:"max_tokens" validate:"gte=0"`
}

// APIKey reads the key from the configured environment variable.
func (c OpenAIGeneratorConfig) APIKey() string { return os.Getenv(c.APIKeyEnv) }

// GeneratorConfig selects how answers are produced.
type GeneratorConfig struct {
	Type        string                `yaml:"type" validate:"oneof=openai extractive"`
	TimeoutSecs int                   `yaml:"timeout_secs" validate:"gte=0"`
	OpenAI      OpenAIGeneratorConfig `yaml:"openai"`
}

func (c GeneratorConfig) Timeout() time.Duration { return seconds(c.TimeoutSecs) }

// SummarizerConfig configures the extractive summarizer.
type SummarizerConfig struct {
	MaxSentences int `yaml:"max_sentences" validate:"gt=0"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr               string   `yaml:"addr" validate:"required"`
	QueryRatePerMinute int      `yaml:"query_rate_per_minute" validate:"gte=0"`
	RequestTimeoutSecs int      `yaml:"request_timeout_secs" validate:"gt=0"`
	MaxUploadMB        int      `yaml:"max_upload_mb" validate:"gt=0"`
	CORSOrigins        []string `yaml:"cors_origins"`
}

func (c ServerConfig) RequestTimeout() time.Duration { return seconds(c.RequestTimeoutSecs) }

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string   `yaml:"level" validate:"oneof=debug info warn error"`
	Format string   `yaml:"format" validate:"oneof=json console"`
	Output []string `yaml:"output,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Embedder   EmbedderConfig   `yaml:"embedder"`
	Chunker    ChunkerConfig    `yaml:"chunker"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
}

// Load reads a config from path over the defaults. A missing file yields
// the defaults. Environment overrides are applied before validation.
func Load(path string) (*AppConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyConfigDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ragqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/ragqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	if err := Save(userPath, Default()); err != nil {
		return nil, "", err
	}
	cfg, err := Load(userPath)
	return cfg, userPath, err
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var validate = validator.New()

// Validate checks every field constraint and reports all violations at once.
func (c *AppConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("%s: failed %q (%s)", fe.Namespace(), fe.Tag(), fe.Param()))
	}
	return errors.Join(errs...)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ragqa", "config.yaml"), nil
}

// Default returns the built-in configuration: local hashing embeddings,
// extractive answers, 500-word chunks with 50 words of overlap.
func Default() *AppConfig {
	return &AppConfig{
		Embedder: EmbedderConfig{
			Type:        "hashing",
			Dimension:   384,
			TimeoutSecs: 60,
			OpenAI: OpenAIEmbedderConfig{
				BaseURL:    "https://api.openai.com/v1",
				APIKeyEnv:  "OPENAI_API_KEY",
				Model:      "text-embedding-3-small",
				BatchSize:  64,
				MaxRetries: 3,
			},
		},
		Chunker:   ChunkerConfig{ChunkSize: 500, Overlap: 50},
		Retrieval: RetrievalConfig{TopK: 3},
		Generator: GeneratorConfig{
			Type:        "extractive",
			TimeoutSecs: 60,
			OpenAI: OpenAIGeneratorConfig{
				BaseURL:     "https://api.groq.com/openai/v1",
				APIKeyEnv:   "GROQ_API_KEY",
				Model:       "llama-3.1-8b-instant",
				Temperature: 0.2,
			},
		},
		Summarizer: SummarizerConfig{MaxSentences: 5},
		Server: ServerConfig{
			Addr:               ":8000",
			QueryRatePerMinute: 5,
			RequestTimeoutSecs: 120,
			MaxUploadMB:        32,
			CORSOrigins:        []string{"*"},
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// applyConfigDefaults fills fields a partial file left empty. Overlap is
// exempt: zero is a meaningful value there.
func applyConfigDefaults(cfg *AppConfig) {
	def := Default()
	setString(&cfg.Embedder.Type, def.Embedder.Type)
	setInt(&cfg.Embedder.Dimension, def.Embedder.Dimension)
	setString(&cfg.Embedder.OpenAI.APIKeyEnv, def.Embedder.OpenAI.APIKeyEnv)
	setString(&cfg.Embedder.OpenAI.Model, def.Embedder.OpenAI.Model)
	setInt(&cfg.Embedder.OpenAI.BatchSize, def.Embedder.OpenAI.BatchSize)
	setInt(&cfg.Chunker.ChunkSize, def.Chunker.ChunkSize)
	setInt(&cfg.Retrieval.TopK, def.Retrieval.TopK)
	setString(&cfg.Generator.Type, def.Generator.Type)
	setString(&cfg.Generator.OpenAI.APIKeyEnv, def.Generator.OpenAI.APIKeyEnv)
	setString(&cfg.Generator.OpenAI.Model, def.Generator.OpenAI.Model)
	setInt(&cfg.Summarizer.MaxSentences, def.Summarizer.MaxSentences)
	setString(&cfg.Server.Addr, def.Server.Addr)
	setInt(&cfg.Server.RequestTimeoutSecs, def.Server.RequestTimeoutSecs)
	setInt(&cfg.Server.MaxUploadMB, def.Server.MaxUploadMB)
	setString(&cfg.Log.Level, def.Log.Level)
	setString(&cfg.Log.Format, def.Log.Format)
}

func applyEnv(cfg *AppConfig) error {
	strs := map[string]*string{
		"RAGQA_EMBEDDER_TYPE":  &cfg.Embedder.Type,
		"RAGQA_GENERATOR_TYPE": &cfg.Generator.Type,
		"RAGQA_SERVER_ADDR":    &cfg.Server.Addr,
		"RAGQA_LOG_LEVEL":      &cfg.Log.Level,
		"RAGQA_LOG_FORMAT":     &cfg.Log.Format,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"RAGQA_EMBEDDER_DIMENSION":    &cfg.Embedder.Dimension,
		"RAGQA_CHUNK_SIZE":            &cfg.Chunker.ChunkSize,
		"RAGQA_CHUNK_OVERLAP":         &cfg.Chunker.Overlap,
		"RAGQA_TOP_K":                 &cfg.Retrieval.TopK,
		"RAGQA_QUERY_RATE_PER_MINUTE": &cfg.Server.QueryRatePerMinute,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = n
	}
	return nil
}

func setString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func setInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
