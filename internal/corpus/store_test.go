package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragqa/internal/domain"
)

func TestStoreAppendAllAndGet(t *testing.T) {
	s := NewStore()
	recs := s.AppendAll("doc-a", []string{"one", "two"})
	assert.Equal(t, []Record{{0, "doc-a", "one"}, {1, "doc-a", "two"}}, recs)

	recs = s.AppendAll("doc-b", []string{"three"})
	assert.Equal(t, []Record{{2, "doc-b", "three"}}, recs)
	assert.Equal(t, 3, s.Size())

	got, err := s.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "two", got.Text)
}

func TestStoreGetOutOfRange(t *testing.T) {
	s := NewStore()
	s.AppendAll("d", []string{"x"})
	for _, ord := range []int{-1, 1, 99} {
		_, err := s.Get(ord)
		assert.ErrorIs(t, err, domain.ErrOutOfRange, "ordinal %d", ord)
	}
}

func TestStoreSnapshot(t *testing.T) {
	s := NewStore()
	s.AppendAll("d", []string{"x"})
	snap := s.Snapshot()
	s.AppendAll("d", []string{"y"})

	assert.Equal(t, 1, snap.Size())
	_, err := snap.Get(1)
	assert.ErrorIs(t, err, domain.ErrOutOfRange)
}
