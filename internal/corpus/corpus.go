// Package corpus owns the process-wide set of ingested chunks and their
// vectors. Corpus keeps the vector index and the chunk store behind one lock
// and exposes a single mutation, Commit, so record i always pairs with
// vector i.
package corpus

import (
	"fmt"
	"sync"

	"ragqa/internal/domain"
	"ragqa/internal/index"
)

// Corpus pairs an index.Flat with a Store.
type Corpus struct {
	mu       sync.RWMutex
	index    *index.Flat
	store    *Store
	onCommit func(total int)
}

// Snapshot is a consistent read-only view: Index.Count() == Store.Size().
type Snapshot struct {
	Index *index.Flat
	Store *Store
}

// New creates an empty corpus for vectors of length dim.
func New(dim int) (*Corpus, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: corpus dimension must be > 0, got %d", domain.ErrShapeMismatch, dim)
	}
	return &Corpus{index: index.New(dim), store: NewStore()}, nil
}

// Commit appends chunks and their vectors as one unit. The batch is fully
// validated before either container changes.
func (c *Corpus) Commit(documentID string, chunks []string, vectors [][]float32) (added, total int, err error) {
	if len(chunks) != len(vectors) {
		return 0, c.Count(), fmt.Errorf("%w: %d vectors for %d chunks", domain.ErrEmbeddingFailure, len(vectors), len(chunks))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.index.Add(vectors...); err != nil {
		return 0, c.index.Count(), err
	}
	c.store.AppendAll(documentID, chunks)
	total = c.store.Size()
	if c.onCommit != nil {
		c.onCommit(total)
	}
	return len(chunks), total, nil
}

// OnCommit registers fn to run after every successful commit while the write
// lock is still held, so successive calls see strictly increasing totals.
// A later registration replaces an earlier one.
func (c *Corpus) OnCommit(fn func(total int)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCommit = fn
}

// Snapshot captures the current corpus. Searching it needs no lock.
func (c *Corpus) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{Index: c.index.Snapshot(), Store: c.store.Snapshot()}
}

// Count returns the number of stored vectors.
func (c *Corpus) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index.Count()
}

// Size returns the number of stored chunk records.
func (c *Corpus) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store.Size()
}

func (c *Corpus) Dimension() int { return c.index.Dimension() }
