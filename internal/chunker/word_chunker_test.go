package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragqa/internal/domain"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(w, " ")
}

func TestSplitExample(t *testing.T) {
	got, err := Split("a b c d e", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"a b", "c d", "e"}, got)
}

func TestSplitNormalizesWhitespace(t *testing.T) {
	got, err := Split("  a\tb\n\nc   d ", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a b c", "c d"}, got)
}

func TestSplitEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		got, err := Split(text, 5, 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	}
}

func TestSplitRejectsInvalidConfig(t *testing.T) {
	cases := []struct{ size, overlap int }{
		{0, 0},
		{-1, 0},
		{5, 5},
		{5, 7},
		{5, -1},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("size=%d/overlap=%d", tc.size, tc.overlap), func(t *testing.T) {
			_, err := Split("a b c", tc.size, tc.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
			_, err = NewWordChunker(tc.size, tc.overlap)
			assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
		})
	}
}

func TestSplitChunkCount(t *testing.T) {
	for n := 1; n <= 40; n++ {
		for size := 1; size <= 8; size++ {
			for overlap := 0; overlap < size; overlap++ {
				got, err := Split(words(n), size, overlap)
				require.NoError(t, err)
				step := size - overlap
				assert.Equal(t, (n+step-1)/step, len(got), "n=%d size=%d overlap=%d", n, size, overlap)
				if overlap == 0 {
					want := (max(n-overlap, 0) + step - 1) / step
					assert.Equal(t, want, len(got))
				}
				for _, c := range got {
					assert.LessOrEqual(t, len(strings.Fields(c)), size)
				}
			}
		}
	}
}

func TestSplitRoundTrip(t *testing.T) {
	text := words(37)
	for size := 1; size <= 9; size++ {
		for overlap := 0; overlap < size; overlap++ {
			chunks, err := Split(text, size, overlap)
			require.NoError(t, err)

			var rebuilt []string
			for i, c := range chunks {
				ws := strings.Fields(c)
				if i > 0 {
					ws = ws[min(overlap, len(ws)):]
				}
				rebuilt = append(rebuilt, ws...)
			}
			assert.Equal(t, strings.Fields(text), rebuilt, "size=%d overlap=%d", size, overlap)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	text := words(1234)
	a, err := Split(text, DefaultChunkSize, DefaultOverlap)
	require.NoError(t, err)
	b, err := Split(text, DefaultChunkSize, DefaultOverlap)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 3)
}

func TestWordChunkerDefaults(t *testing.T) {
	c := NewDefault()
	assert.Equal(t, 500, c.ChunkSize())
	assert.Equal(t, 50, c.Overlap())

	chunks, err := c.Chunk(words(10))
	require.NoError(t, err)
	assert.Equal(t, []string{words(10)}, chunks)
}
