// Package hashing implements a local embedder that needs no model download
// or corpus preparation: term frequencies are folded into a fixed number of
// buckets with a signed hashing trick and the result is L2-normalized.
package hashing

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"

	"ragqa/internal/textutil"
)

// DefaultDimension matches the MiniLM sentence embeddings the corpus was sized for.
const DefaultDimension = 384

// Embedder is deterministic and safe for concurrent use.
type Embedder struct {
	dimension int
}

// NewEmbedder creates an embedder producing vectors of length dimension.
func NewEmbedder(dimension int) (*Embedder, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("hashing: dimension must be > 0, got %d", dimension)
	}
	return &Embedder{dimension: dimension}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hashing" }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes one vector per text, in order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(t)
	}
	return out, nil
}

// EmbedOne computes the vector for a single text.
func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.vector(text), nil
}

func (e *Embedder) vector(text string) []float32 {
	vec := make([]float32, e.dimension)
	tf := make(map[string]int)
	for _, tok := range textutil.Terms(text) {
		tf[tok]++
	}
	if len(tf) == 0 {
		return vec
	}
	for tok, count := range tf {
		bucket, sign := e.bucket(tok)
		// Sublinear term frequency keeps long chunks from drowning short ones.
		vec[bucket] += sign * float32(1+math.Log(float64(count)))
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func (e *Embedder) bucket(tok string) (int, float32) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(tok))
	sum := h.Sum64()
	sign := float32(1)
	if sum>>63 == 1 {
		sign = -1
	}
	return int(sum % uint64(e.dimension)), sign
}
