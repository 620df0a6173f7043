// Package index implements an exact nearest-neighbour index over
// fixed-dimension vectors using a brute-force squared-L2 scan.
//
// Vectors are addressed by ordinal: the 0-based position at which they were
// added. A Flat is not safe for concurrent mutation; callers that share one
// across goroutines serialize Add and search Snapshot copies instead.
package index

import (
	"container/heap"
	"fmt"
	"sort"

	"ragqa/internal/domain"
)

// Hit is a single search result.
type Hit struct {
	Ordinal  int
	Distance float32
}

// Flat is an append-only exact index.
type Flat struct {
	dim  int
	rows [][]float32
}

// New creates an empty index for vectors of length dim. It panics if dim is
// not positive.
func New(dim int) *Flat {
	if dim <= 0 {
		panic(fmt.Sprintf("index: invalid dimension %d", dim))
	}
	return &Flat{dim: dim}
}

func (f *Flat) Dimension() int { return f.dim }

func (f *Flat) Count() int { return len(f.rows) }

// Check reports whether every vector matches the index dimension.
func (f *Flat) Check(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("%w: vector %d has %d values, index expects %d", domain.ErrShapeMismatch, i, len(v), f.dim)
		}
	}
	return nil
}

// Add appends vectors in order. Either all vectors are added or, on a shape
// mismatch, none are.
func (f *Flat) Add(vectors ...[]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	if err := f.Check(vectors); err != nil {
		return err
	}
	for _, v := range vectors {
		row := make([]float32, f.dim)
		copy(row, v)
		f.rows = append(f.rows, row)
	}
	return nil
}

// Snapshot returns a view of the rows added so far. Rows are never modified
// after Add, so the view stays valid while the original keeps growing.
func (f *Flat) Snapshot() *Flat {
	n := len(f.rows)
	return &Flat{dim: f.dim, rows: f.rows[:n:n]}
}

// Search returns up to k hits ordered by ascending squared L2 distance,
// breaking ties by lower ordinal. An empty index yields no hits.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidTopK, k)
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d values, index expects %d", domain.ErrShapeMismatch, len(query), f.dim)
	}
	if len(f.rows) == 0 {
		return []Hit{}, nil
	}
	if k > len(f.rows) {
		k = len(f.rows)
	}

	h := make(worstFirst, 0, k)
	for i, row := range f.rows {
		hit := Hit{Ordinal: i, Distance: SquaredL2(query, row)}
		if len(h) < k {
			heap.Push(&h, hit)
			continue
		}
		if less(hit, h[0]) {
			h[0] = hit
			heap.Fix(&h, 0)
		}
	}

	hits := []Hit(h)
	sort.Slice(hits, func(i, j int) bool { return less(hits[i], hits[j]) })
	return hits, nil
}

// SquaredL2 returns the squared Euclidean distance between equal-length vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func less(a, b Hit) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Ordinal < b.Ordinal
}

// worstFirst is a max-heap on (distance, ordinal) holding the current best k.
type worstFirst []Hit

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return less(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(Hit)) }
func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
