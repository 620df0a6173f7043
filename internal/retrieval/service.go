// Package retrieval answers "which stored chunks are closest to this
// question" against a consistent snapshot of the corpus.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"ragqa/internal/corpus"
	"ragqa/internal/domain"
	"ragqa/internal/embedding"
	"ragqa/internal/index"
	"ragqa/internal/observability"
)

const (
	DefaultTopK    = 3
	DefaultTimeout = 30 * time.Second

	// NoDocumentsMessage is returned in place of passages while the corpus is empty.
	NoDocumentsMessage = "No documents have been ingested yet."
)

// Passage is one retrieved chunk with its distance to the question.
type Passage struct {
	Ordinal    int     `json:"ordinal"`
	DocumentID string  `json:"document_id"`
	Text       string  `json:"text"`
	Distance   float32 `json:"distance"`
}

// Result holds passages ordered by ascending distance, ties by lower ordinal.
type Result struct {
	Passages    []Passage
	EmptyCorpus bool
}

// Texts returns the passage texts, or the single NoDocumentsMessage
// sentinel when nothing has been ingested.
func (r Result) Texts() []string {
	if r.EmptyCorpus {
		return []string{NoDocumentsMessage}
	}
	out := make([]string, len(r.Passages))
	for i, p := range r.Passages {
		out[i] = p.Text
	}
	return out
}

// Service retrieves passages from a corpus.
type Service struct {
	corpus   *corpus.Corpus
	embedder domain.Embedder
	timeout  time.Duration
	logger   *zap.Logger
}

type Option func(*Service)

// WithTimeout bounds the question embedding call. Zero disables the bound.
func WithTimeout(d time.Duration) Option { return func(s *Service) { s.timeout = d } }

func WithLogger(l *zap.Logger) Option { return func(s *Service) { s.logger = l } }

func New(c *corpus.Corpus, e domain.Embedder, opts ...Option) *Service {
	s := &Service{corpus: c, embedder: e, timeout: DefaultTimeout, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve returns up to topK passages nearest to question. A non-positive
// topK means DefaultTopK. An empty corpus yields the sentinel result before
// the question is looked at.
func (s *Service) Retrieve(ctx context.Context, question string, topK int) (Result, error) {
	res, err := s.retrieve(ctx, question, topK)
	status := "ok"
	switch {
	case err != nil:
		status = "error"
		if errors.Is(err, domain.ErrEmbeddingTimeout) {
			status = "timeout"
		}
	case res.EmptyCorpus:
		status = "empty"
	}
	observability.RetrievalsTotal.WithLabelValues(status).Inc()
	if err != nil {
		return Result{}, domain.Op("retrieve", err)
	}
	return res, nil
}

func (s *Service) retrieve(ctx context.Context, question string, topK int) (Result, error) {
	snap := s.corpus.Snapshot()
	if snap.Index.Count() == 0 {
		return Result{EmptyCorpus: true}, nil
	}
	if strings.TrimSpace(question) == "" {
		return Result{}, domain.ErrInvalidQuestion
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	start := time.Now()
	q, err := embedding.One(ctx, s.embedder, question, s.timeout)
	observability.EmbeddingDuration.WithLabelValues("query").Observe(time.Since(start).Seconds())
	if err != nil {
		return Result{}, err
	}

	hits, err := snap.Index.Search(q, topK)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return Result{Passages: s.collect(snap.Store, hits)}, nil
}

// collect maps hits to stored records. Ordinals the store does not hold are
// logged and skipped.
func (s *Service) collect(store *corpus.Store, hits []index.Hit) []Passage {
	out := make([]Passage, 0, len(hits))
	for _, h := range hits {
		rec, err := store.Get(h.Ordinal)
		if err != nil {
			s.logger.Warn("search hit without stored chunk", zap.Int("ordinal", h.Ordinal), zap.Error(err))
			continue
		}
		out = append(out, Passage{
			Ordinal:    rec.Ordinal,
			DocumentID: rec.DocumentID,
			Text:       rec.Text,
			Distance:   h.Distance,
		})
	}
	return out
}
