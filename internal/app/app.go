// Package app wires configuration into a ready question-answering service.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"ragqa/internal/chunker"
	"ragqa/internal/config"
	"ragqa/internal/corpus"
	"ragqa/internal/domain"
	"ragqa/internal/embedding/hashing"
	"ragqa/internal/embedding/openai"
	"ragqa/internal/generator"
	genopenai "ragqa/internal/generator/openai"
	"ragqa/internal/ingest"
	"ragqa/internal/parser"
	"ragqa/internal/retrieval"
	"ragqa/internal/service"
	"ragqa/internal/summarizer"
)

// App holds the assembled components. The corpus lives for the process.
type App struct {
	Config   *config.AppConfig
	Corpus   *corpus.Corpus
	Embedder domain.Embedder
	QA       *service.QA
	Logger   *zap.Logger
}

// Build assembles every component described by cfg.
func Build(cfg *config.AppConfig, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	emb, err := NewEmbedder(cfg.Embedder)
	if err != nil {
		return nil, fmt.Errorf("embedder: %w", err)
	}
	ch, err := chunker.NewWordChunker(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, fmt.Errorf("chunker: %w", err)
	}
	sum := summarizer.NewFrequency()
	gen, err := NewGenerator(cfg.Generator, sum, cfg.Summarizer.MaxSentences)
	if err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}

	c, err := corpus.New(emb.Dimension())
	if err != nil {
		return nil, err
	}
	pipeline, err := ingest.New(c, emb,
		ingest.WithChunker(ch),
		ingest.WithParser(parser.New()),
		ingest.WithSummarizer(sum, cfg.Summarizer.MaxSentences),
		ingest.WithTimeout(cfg.Embedder.Timeout()),
		ingest.WithLogger(logger.Named("ingest")),
	)
	if err != nil {
		return nil, err
	}
	retriever := retrieval.New(c, emb,
		retrieval.WithTimeout(cfg.Embedder.Timeout()),
		retrieval.WithLogger(logger.Named("retrieval")),
	)
	qa := service.NewQA(c, pipeline, retriever, gen, emb.Name(),
		service.WithTopK(cfg.Retrieval.TopK),
		service.WithGenerationTimeout(cfg.Generator.Timeout()),
		service.WithLogger(logger.Named("qa")),
	)

	logger.Info("components assembled",
		zap.String("embedder", emb.Name()),
		zap.Int("dimension", emb.Dimension()),
		zap.String("generator", cfg.Generator.Type),
		zap.Int("chunk_size", ch.ChunkSize()),
		zap.Int("overlap", ch.Overlap()),
	)
	return &App{Config: cfg, Corpus: c, Embedder: emb, QA: qa, Logger: logger}, nil
}

// NewEmbedder selects the embedder implementation named by cfg.Type.
func NewEmbedder(cfg config.EmbedderConfig) (domain.Embedder, error) {
	switch cfg.Type {
	case "hashing", "":
		return hashing.NewEmbedder(cfg.Dimension)
	case "openai":
		return openai.NewClient(openai.Config{
			BaseURL:    cfg.OpenAI.BaseURL,
			APIKey:     cfg.OpenAI.APIKey(),
			Model:      cfg.OpenAI.Model,
			Dimension:  cfg.Dimension,
			Timeout:    cfg.Timeout(),
			MaxRetries: cfg.OpenAI.MaxRetries,
			BatchSize:  cfg.OpenAI.BatchSize,
		})
	default:
		return nil, fmt.Errorf("unknown embedder: %s", cfg.Type)
	}
}

// NewGenerator selects the answer generator named by cfg.Type.
func NewGenerator(cfg config.GeneratorConfig, sum domain.Summarizer, maxSentences int) (domain.Generator, error) {
	switch cfg.Type {
	case "extractive", "":
		return generator.NewExtractive(sum, maxSentences), nil
	case "openai":
		return genopenai.NewClient(genopenai.Config{
			BaseURL:     cfg.OpenAI.BaseURL,
			APIKey:      cfg.OpenAI.APIKey(),
			Model:       cfg.OpenAI.Model,
			Temperature: cfg.OpenAI.Temperature,
			MaxTokens:   cfg.OpenAI.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unknown generator: %s", cfg.Type)
	}
}
