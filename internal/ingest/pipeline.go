// Package ingest turns raw documents into committed corpus entries:
// parse, split, embed in one batch, then commit chunks and vectors together.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ragqa/internal/chunker"
	"ragqa/internal/corpus"
	"ragqa/internal/domain"
	"ragqa/internal/embedding"
	"ragqa/internal/observability"
	"ragqa/internal/parser"
)

// DefaultTimeout bounds the batched embedding call.
const DefaultTimeout = 60 * time.Second

// Pipeline ingests documents into a corpus. It is safe for concurrent use;
// concurrent ingestions embed in parallel and serialize on Corpus.Commit.
type Pipeline struct {
	corpus           *corpus.Corpus
	embedder         domain.Embedder
	chunker          domain.Chunker
	parser           domain.Parser
	summarizer       domain.Summarizer
	summarySentences int
	timeout          time.Duration
	logger           *zap.Logger
}

type Option func(*Pipeline)

func WithChunker(c domain.Chunker) Option { return func(p *Pipeline) { p.chunker = c } }

func WithParser(pr domain.Parser) Option { return func(p *Pipeline) { p.parser = pr } }

// WithSummarizer attaches an extractive summary of up to maxSentences
// sentences to every ingestion result.
func WithSummarizer(s domain.Summarizer, maxSentences int) Option {
	return func(p *Pipeline) {
		p.summarizer = s
		p.summarySentences = maxSentences
	}
}

// WithTimeout bounds the embedding call. Zero disables the bound.
func WithTimeout(d time.Duration) Option { return func(p *Pipeline) { p.timeout = d } }

func WithLogger(l *zap.Logger) Option { return func(p *Pipeline) { p.logger = l } }

// New wires a pipeline. The embedder must produce vectors of the corpus dimension.
func New(c *corpus.Corpus, e domain.Embedder, opts ...Option) (*Pipeline, error) {
	if e.Dimension() != c.Dimension() {
		return nil, fmt.Errorf("%w: embedder %s produces %d dimensions, corpus holds %d",
			domain.ErrShapeMismatch, e.Name(), e.Dimension(), c.Dimension())
	}
	p := &Pipeline{
		corpus:   c,
		embedder: e,
		chunker:  chunker.NewDefault(),
		parser:   parser.New(),
		timeout:  DefaultTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	c.OnCommit(func(total int) { observability.CorpusChunks.Set(float64(total)) })
	return p, nil
}

// Ingest splits, embeds and commits text.
func (p *Pipeline) Ingest(ctx context.Context, text string) (domain.IngestionResult, error) {
	return p.ingest(ctx, "", text)
}

// IngestReader parses r according to filename's extension and ingests the
// text. Unsupported formats fail before anything is embedded.
func (p *Pipeline) IngestReader(ctx context.Context, filename string, r io.Reader) (domain.IngestionResult, error) {
	text, err := p.parser.Parse(filename, r)
	if err != nil {
		observability.IngestionsTotal.WithLabelValues(statusOf(err)).Inc()
		p.logger.Warn("document rejected", zap.String("source", filename), zap.Error(err))
		return domain.IngestionResult{}, domain.Op("ingest "+filename, err)
	}
	return p.ingest(ctx, filename, text)
}

func (p *Pipeline) ingest(ctx context.Context, source, text string) (domain.IngestionResult, error) {
	res, err := p.run(ctx, source, text)
	observability.IngestionsTotal.WithLabelValues(statusOf(err)).Inc()
	if err != nil {
		p.logger.Warn("ingestion failed", zap.String("source", source), zap.Error(err))
		op := "ingest"
		if source != "" {
			op += " " + source
		}
		return domain.IngestionResult{}, domain.Op(op, err)
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, source, text string) (domain.IngestionResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.IngestionResult{}, fmt.Errorf("%w: document is empty", domain.ErrInvalidDocument)
	}

	chunks, err := p.chunker.Chunk(text)
	if err != nil {
		return domain.IngestionResult{}, err
	}
	if len(chunks) == 0 {
		return domain.IngestionResult{}, fmt.Errorf("%w: document produced no chunks", domain.ErrInvalidDocument)
	}

	start := time.Now()
	vectors, err := embedding.Batch(ctx, p.embedder, chunks, p.timeout)
	observability.EmbeddingDuration.WithLabelValues("document").Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.IngestionResult{}, err
	}

	id := uuid.NewString()
	added, total, err := p.corpus.Commit(id, chunks, vectors)
	if err != nil {
		return domain.IngestionResult{}, err
	}
	observability.ChunksIngestedTotal.Add(float64(added))

	res := domain.IngestionResult{
		DocumentID:  id,
		Source:      source,
		Characters:  len([]rune(text)),
		ChunksAdded: added,
		TotalChunks: total,
	}
	if p.summarizer != nil {
		summary, err := p.summarizer.Summarize(text, p.summarySentences)
		if err != nil {
			p.logger.Warn("summary failed", zap.String("document_id", id), zap.Error(err))
		} else {
			res.Summary = summary
		}
	}

	p.logger.Info("document ingested",
		zap.String("document_id", id),
		zap.String("source", source),
		zap.Int("characters", res.Characters),
		zap.Int("chunks_added", added),
		zap.Int("total_vectors", total),
	)
	return res, nil
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return "unsupported"
	case errors.Is(err, domain.ErrInvalidDocument), errors.Is(err, domain.ErrInvalidChunkConfig):
		return "invalid"
	case errors.Is(err, domain.ErrEmbeddingTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrEmbeddingFailure), errors.Is(err, domain.ErrShapeMismatch):
		return "embed_error"
	default:
		return "error"
	}
}
