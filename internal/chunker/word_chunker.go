package chunker

import (
	"fmt"
	"strings"

	"ragqa/internal/domain"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
)

// WordChunker splits text into overlapping windows of whitespace-separated words.
type WordChunker struct {
	chunkSize int
	overlap   int
}

// NewWordChunker validates the window parameters up front so Chunk cannot loop forever.
func NewWordChunker(chunkSize, overlap int) (*WordChunker, error) {
	if err := validate(chunkSize, overlap); err != nil {
		return nil, err
	}
	return &WordChunker{chunkSize: chunkSize, overlap: overlap}, nil
}

// NewDefault returns a chunker with 500-word windows overlapping by 50 words.
func NewDefault() *WordChunker {
	return &WordChunker{chunkSize: DefaultChunkSize, overlap: DefaultOverlap}
}

func (c *WordChunker) ChunkSize() int { return c.chunkSize }

func (c *WordChunker) Overlap() int { return c.overlap }

// Chunk implements domain.Chunker.
func (c *WordChunker) Chunk(text string) ([]string, error) {
	return Split(text, c.chunkSize, c.overlap)
}

// Split cuts text into windows of up to chunkSize words. Windows start every
// chunkSize-overlap words until the start passes the last word; the final
// window may be shorter. Words are re-joined with single spaces.
func Split(text string, chunkSize, overlap int) ([]string, error) {
	if err := validate(chunkSize, overlap); err != nil {
		return nil, err
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	step := chunkSize - overlap
	chunks := make([]string, 0, (len(words)+step-1)/step)
	for start := 0; start < len(words); start += step {
		end := start + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks, nil
}

func validate(chunkSize, overlap int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be > 0, got %d", domain.ErrInvalidChunkConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return fmt.Errorf("%w: overlap must be in [0, %d), got %d", domain.ErrInvalidChunkConfig, chunkSize, overlap)
	}
	return nil
}
