package index

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragqa/internal/domain"
)

func TestAddAssignsOrdinals(t *testing.T) {
	f := New(2)
	require.NoError(t, f.Add([]float32{0, 0}, []float32{1, 1}))
	require.NoError(t, f.Add([]float32{5, 5}))
	assert.Equal(t, 3, f.Count())

	hits, err := f.Search([]float32{5, 5}, 1)
	require.NoError(t, err)
	assert.Equal(t, []Hit{{Ordinal: 2, Distance: 0}}, hits)
}

func TestAddNoVectorsIsNoop(t *testing.T) {
	f := New(3)
	require.NoError(t, f.Add())
	assert.Equal(t, 0, f.Count())
}

func TestAddShapeMismatchAddsNothing(t *testing.T) {
	f := New(2)
	err := f.Add([]float32{1, 2}, []float32{1, 2, 3})
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)
	assert.Equal(t, 0, f.Count())
}

func TestAddCopiesInput(t *testing.T) {
	f := New(2)
	v := []float32{1, 1}
	require.NoError(t, f.Add(v))
	v[0] = 100

	hits, err := f.Search([]float32{1, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, float32(0), hits[0].Distance)
}

func TestSearchEmptyIndex(t *testing.T) {
	hits, err := New(4).Search([]float32{1, 2, 3, 4}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NotNil(t, hits)
}

func TestSearchValidation(t *testing.T) {
	f := New(2)
	require.NoError(t, f.Add([]float32{1, 1}))

	_, err := f.Search([]float32{1}, 1)
	assert.ErrorIs(t, err, domain.ErrShapeMismatch)

	_, err = f.Search([]float32{1, 1}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidTopK)
}

func TestSearchOrdersByDistance(t *testing.T) {
	f := New(1)
	require.NoError(t, f.Add([]float32{10}, []float32{1}, []float32{4}, []float32{-2}))

	hits, err := f.Search([]float32{0}, 10)
	require.NoError(t, err)
	assert.Equal(t, []Hit{
		{Ordinal: 1, Distance: 1},
		{Ordinal: 3, Distance: 4},
		{Ordinal: 2, Distance: 16},
		{Ordinal: 0, Distance: 100},
	}, hits)
}

func TestSearchBreaksTiesByOrdinal(t *testing.T) {
	f := New(2)
	require.NoError(t, f.Add(
		[]float32{0, 1},
		[]float32{3, 3},
		[]float32{1, 0},
		[]float32{0, -1},
		[]float32{-1, 0},
	))

	hits, err := f.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3}, ordinals(hits))

	hits, err = f.Search([]float32{0, 0}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 3, 4, 1}, ordinals(hits))
}

func TestSearchMatchesFullSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const dim = 8
	f := New(dim)
	for i := 0; i < 500; i++ {
		v := make([]float32, dim)
		for j := range v {
			// Coarse values force plenty of equal distances.
			v[j] = float32(rng.Intn(3))
		}
		require.NoError(t, f.Add(v))
	}
	query := make([]float32, dim)

	all := make([]Hit, f.Count())
	for i, row := range f.rows {
		all[i] = Hit{Ordinal: i, Distance: SquaredL2(query, row)}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })

	for _, k := range []int{1, 5, 37, 500, 900} {
		hits, err := f.Search(query, k)
		require.NoError(t, err)
		assert.Equal(t, all[:min(k, len(all))], hits, "k=%d", k)
		for i := 1; i < len(hits); i++ {
			assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
		}
	}
}

func TestSnapshotIsStable(t *testing.T) {
	f := New(1)
	require.NoError(t, f.Add([]float32{1}, []float32{2}))
	snap := f.Snapshot()
	require.NoError(t, f.Add([]float32{0}))

	assert.Equal(t, 2, snap.Count())
	assert.Equal(t, 3, f.Count())

	hits, err := snap.Search([]float32{0}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, ordinals(hits))
}

func TestNewPanicsOnBadDimension(t *testing.T) {
	assert.Panics(t, func() { New(0) })
}

func ordinals(hits []Hit) []int {
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.Ordinal
	}
	return out
}
