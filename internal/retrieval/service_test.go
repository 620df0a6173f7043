package retrieval

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragqa/internal/corpus"
	"ragqa/internal/domain"
	"ragqa/internal/embedding/embeddingtest"
	"ragqa/internal/index"
)

func seed(t *testing.T, fake *embeddingtest.Fake, docs ...[]string) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(fake.Dimension())
	require.NoError(t, err)
	for i, chunks := range docs {
		vectors := make([][]float32, len(chunks))
		for j, ch := range chunks {
			vectors[j] = fake.Vector(ch)
		}
		_, _, err := c.Commit(string(rune('A'+i)), chunks, vectors)
		require.NoError(t, err)
	}
	return c
}

func TestRetrieveEmptyCorpusReturnsSentinel(t *testing.T) {
	fake := embeddingtest.New(2)
	s := New(seed(t, fake), fake)

	res, err := s.Retrieve(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.True(t, res.EmptyCorpus)
	assert.Equal(t, []string{NoDocumentsMessage}, res.Texts())
	assert.Zero(t, fake.Calls())

	res, err = s.Retrieve(context.Background(), "   ", 3)
	require.NoError(t, err)
	assert.True(t, res.EmptyCorpus)
}

func TestRetrieveOrdersByDistance(t *testing.T) {
	fake := embeddingtest.New(2)
	fake.Set("far", []float32{10, 10})
	fake.Set("near", []float32{1, 0})
	fake.Set("middle", []float32{3, 0})
	fake.Set("question", []float32{0, 0})
	s := New(seed(t, fake, []string{"far", "near", "middle"}), fake)

	res, err := s.Retrieve(context.Background(), "question", 2)
	require.NoError(t, err)
	assert.False(t, res.EmptyCorpus)
	assert.Equal(t, []string{"near", "middle"}, res.Texts())
	assert.Equal(t, 1, res.Passages[0].Ordinal)
	assert.Equal(t, float32(1), res.Passages[0].Distance)
	assert.Equal(t, "A", res.Passages[0].DocumentID)
}

func TestRetrieveTiesPreferLowerOrdinal(t *testing.T) {
	fake := embeddingtest.New(2)
	fake.Set("x", []float32{1, 0})
	fake.Set("y", []float32{0, 1})
	fake.Set("q", []float32{0, 0})
	s := New(seed(t, fake, []string{"y", "x"}, []string{"x"}), fake)

	res, err := s.Retrieve(context.Background(), "q", 3)
	require.NoError(t, err)
	require.Len(t, res.Passages, 3)
	for i, p := range res.Passages {
		assert.Equal(t, i, p.Ordinal)
	}
}

func TestRetrieveDefaultTopK(t *testing.T) {
	fake := embeddingtest.New(4)
	s := New(seed(t, fake, []string{"a", "b", "c", "d", "e"}), fake)

	res, err := s.Retrieve(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Len(t, res.Passages, DefaultTopK)
}

func TestRetrieveFromTwoDocuments(t *testing.T) {
	fake := embeddingtest.New(4)
	first := []string{"a b", "c d", "e f"}
	second := []string{"g h", "i j", "k l", "m n"}
	c := seed(t, fake, first, second)
	require.Equal(t, 7, c.Size())

	res, err := New(c, fake).Retrieve(context.Background(), "what is in there?", 5)
	require.NoError(t, err)
	texts := res.Texts()
	assert.LessOrEqual(t, len(texts), 5)
	all := append(append([]string{}, first...), second...)
	for _, tx := range texts {
		assert.Contains(t, all, tx)
	}
	for i := 1; i < len(res.Passages); i++ {
		assert.LessOrEqual(t, res.Passages[i-1].Distance, res.Passages[i].Distance)
	}
}

func TestRetrieveTopKLargerThanCorpus(t *testing.T) {
	fake := embeddingtest.New(4)
	s := New(seed(t, fake, []string{"only", "two"}), fake)

	res, err := s.Retrieve(context.Background(), "q", 10)
	require.NoError(t, err)
	assert.Len(t, res.Passages, 2)
}

func TestRetrieveErrors(t *testing.T) {
	t.Run("blank question", func(t *testing.T) {
		fake := embeddingtest.New(2)
		_, err := New(seed(t, fake, []string{"a"}), fake).Retrieve(context.Background(), "  ", 3)
		assert.ErrorIs(t, err, domain.ErrInvalidQuestion)
	})

	t.Run("embedding timeout", func(t *testing.T) {
		fake := embeddingtest.New(2)
		c := seed(t, fake, []string{"a"})
		fake.Delay = time.Second
		_, err := New(c, fake, WithTimeout(20*time.Millisecond)).Retrieve(context.Background(), "q", 3)
		assert.ErrorIs(t, err, domain.ErrEmbeddingTimeout)
	})

	t.Run("query shape mismatch", func(t *testing.T) {
		fake := embeddingtest.New(2)
		c := seed(t, fake, []string{"a"})
		fake.Set("q", []float32{1, 2, 3})
		_, err := New(c, fake).Retrieve(context.Background(), "q", 3)
		assert.ErrorIs(t, err, domain.ErrShapeMismatch)
	})
}

func TestCollectSkipsUnknownOrdinals(t *testing.T) {
	store := corpus.NewStore()
	store.AppendAll("doc", []string{"zero", "one"})

	s := New(nil, embeddingtest.New(2))
	got := s.collect(store, []index.Hit{{Ordinal: 1, Distance: 0.5}, {Ordinal: 7, Distance: 0.6}, {Ordinal: 0, Distance: 0.7}})

	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].Text)
	assert.Equal(t, "zero", got[1].Text)
}
