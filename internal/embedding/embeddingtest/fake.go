// Package embeddingtest provides a deterministic domain.Embedder for tests.
package embeddingtest

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"
)

// Fake derives a vector from each text's hash unless one was pinned with Set.
// Err, Delay and Drop inject collaborator misbehaviour.
type Fake struct {
	Dim   int
	Err   error
	Delay time.Duration
	// Drop removes this many vectors from every batch response.
	Drop int

	mu     sync.Mutex
	pinned map[string][]float32
	calls  atomic.Int64
}

func New(dim int) *Fake {
	return &Fake{Dim: dim, pinned: make(map[string][]float32)}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Dimension() int { return f.Dim }

// Set pins the vector returned for text.
func (f *Fake) Set(text string, v []float32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pinned[text] = v
}

// Calls counts Embed and EmbedOne invocations.
func (f *Fake) Calls() int64 { return f.calls.Load() }

// Vector returns the vector Fake produces for text.
func (f *Fake) Vector(text string) []float32 {
	f.mu.Lock()
	v, ok := f.pinned[text]
	f.mu.Unlock()
	if ok {
		return v
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum64()
	out := make([]float32, f.Dim)
	for i := range out {
		seed = seed*6364136223846793005 + 1442695040888963407
		out[i] = float32(seed>>40) / float32(1<<24)
	}
	return out
}

func (f *Fake) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, f.Vector(t))
	}
	if f.Drop > 0 {
		out = out[:max(len(out)-f.Drop, 0)]
	}
	return out, nil
}

func (f *Fake) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	f.calls.Add(1)
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	return f.Vector(text), nil
}

func (f *Fake) wait(ctx context.Context) error {
	if f.Delay > 0 {
		select {
		case <-time.After(f.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.Err
}
