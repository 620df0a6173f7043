package domain

import (
	"context"
	"io"
)

// IngestionResult describes the outcome of a single document ingestion.
type IngestionResult struct {
	DocumentID  string `json:"document_id"`
	Source      string `json:"source,omitempty"`
	Characters  int    `json:"characters"`
	ChunksAdded int    `json:"chunks_added"`
	TotalChunks int    `json:"total_chunks"`
	Summary     string `json:"summary,omitempty"`
}

// Embedder converts free text into fixed-dimension vectors.
// Embed must return one vector per input, in input order.
type Embedder interface {
	Name() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// Chunker splits document text into retrieval units.
type Chunker interface {
	Chunk(text string) ([]string, error)
}

// Parser extracts raw text from an uploaded file.
type Parser interface {
	Parse(filename string, r io.Reader) (string, error)
}

// Generator answers a question from ranked context passages.
type Generator interface {
	Generate(ctx context.Context, passages []string, question string) (string, error)
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
