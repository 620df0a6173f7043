// Package service composes ingestion, retrieval and answer generation into
// the question-answering operations the front ends call.
package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"ragqa/internal/corpus"
	"ragqa/internal/domain"
	"ragqa/internal/ingest"
	"ragqa/internal/observability"
	"ragqa/internal/parser"
	"ragqa/internal/retrieval"
)

// NoRelevantInformation is the answer when retrieval finds no passages.
const NoRelevantInformation = "No relevant information found in the uploaded document."

const (
	DefaultGenerationTimeout = 60 * time.Second
	defaultIngestWorkers     = 4
)

// Answer is the outcome of Ask.
type Answer struct {
	Text     string              `json:"answer"`
	Passages []retrieval.Passage `json:"sources"`
	Latency  time.Duration       `json:"-"`
}

// Stats describes the corpus for health output.
type Stats struct {
	Chunks    int    `json:"chunks"`
	Dimension int    `json:"dimension"`
	Embedder  string `json:"embedder"`
}

// QA is the question-answering service.
type QA struct {
	corpus     *corpus.Corpus
	pipeline   *ingest.Pipeline
	retriever  *retrieval.Service
	generator  domain.Generator
	embedder   string
	topK       int
	genTimeout time.Duration
	workers    int
	logger     *zap.Logger
}

type Option func(*QA)

// WithTopK sets how many passages Ask hands to the generator.
func WithTopK(k int) Option { return func(s *QA) { s.topK = k } }

func WithGenerationTimeout(d time.Duration) Option { return func(s *QA) { s.genTimeout = d } }

// WithIngestWorkers caps how many files IngestFiles processes at once.
func WithIngestWorkers(n int) Option { return func(s *QA) { s.workers = n } }

func WithLogger(l *zap.Logger) Option { return func(s *QA) { s.logger = l } }

func NewQA(c *corpus.Corpus, p *ingest.Pipeline, r *retrieval.Service, g domain.Generator, embedderName string, opts ...Option) *QA {
	s := &QA{
		corpus:     c,
		pipeline:   p,
		retriever:  r,
		generator:  g,
		embedder:   embedderName,
		topK:       retrieval.DefaultTopK,
		genTimeout: DefaultGenerationTimeout,
		workers:    defaultIngestWorkers,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload ingests an uploaded file.
func (s *QA) Upload(ctx context.Context, filename string, r io.Reader) (domain.IngestionResult, error) {
	return s.pipeline.IngestReader(ctx, filename, r)
}

// IngestText ingests raw text.
func (s *QA) IngestText(ctx context.Context, text string) (domain.IngestionResult, error) {
	return s.pipeline.Ingest(ctx, text)
}

// IngestFiles expands glob patterns, keeps files with a supported extension
// and ingests them concurrently. Results follow the order of the matched
// files. The first failure cancels the remaining work.
func (s *QA) IngestFiles(ctx context.Context, patterns []string) ([]domain.IngestionResult, error) {
	var paths []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		// A literal path that does not exist is kept so the open error
		// surfaces; a glob with no matches contributes nothing.
		if matches == nil && !strings.ContainsAny(p, "*?[") {
			matches = []string{p}
		}
		for _, m := range matches {
			if parser.Supported(m) {
				paths = append(paths, m)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no .txt or .pdf documents found", domain.ErrInvalidDocument)
	}

	results := make([]domain.IngestionResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.workers, 1))
	for i, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			res, err := s.pipeline.IngestReader(ctx, filepath.Base(path), f)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Search returns ranked passages without generating an answer.
func (s *QA) Search(ctx context.Context, question string, topK int) (retrieval.Result, error) {
	return s.retriever.Retrieve(ctx, question, topK)
}

// Ask retrieves context for question and generates a grounded answer.
func (s *QA) Ask(ctx context.Context, question string) (Answer, error) {
	res, err := s.retriever.Retrieve(ctx, question, s.topK)
	if err != nil {
		return Answer{}, err
	}
	if res.EmptyCorpus {
		return Answer{Text: retrieval.NoDocumentsMessage}, nil
	}
	if len(res.Passages) == 0 {
		return Answer{Text: NoRelevantInformation}, nil
	}

	gctx, cancel := context.WithTimeout(ctx, s.genTimeout)
	defer cancel()
	start := time.Now()
	text, err := s.generator.Generate(gctx, res.Texts(), question)
	latency := time.Since(start)
	observability.GenerationDuration.Observe(latency.Seconds())
	if err != nil {
		s.logger.Warn("generation failed", zap.Duration("latency", latency), zap.Error(err))
		return Answer{}, domain.Op("ask", fmt.Errorf("%w: %w", domain.ErrGenerationFailure, err))
	}

	s.logger.Info("question answered",
		zap.Int("passages", len(res.Passages)),
		zap.Duration("latency", latency),
	)
	return Answer{Text: text, Passages: res.Passages, Latency: latency}, nil
}

// Stats reports the current corpus size.
func (s *QA) Stats() Stats {
	return Stats{Chunks: s.corpus.Size(), Dimension: s.corpus.Dimension(), Embedder: s.embedder}
}
