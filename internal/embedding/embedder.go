// Package embedding wraps calls to a domain.Embedder with a deadline and
// maps collaborator failures onto the domain error taxonomy.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ragqa/internal/domain"
)

// Batch embeds texts with one collaborator call bounded by timeout.
// A zero timeout leaves ctx as is.
func Batch(ctx context.Context, e domain.Embedder, texts []string, timeout time.Duration) ([][]float32, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	vectors, err := e.Embed(ctx, texts)
	if err != nil {
		return nil, classify(ctx, e, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: %s returned %d vectors for %d texts", domain.ErrEmbeddingFailure, e.Name(), len(vectors), len(texts))
	}
	return vectors, nil
}

// One embeds a single text bounded by timeout.
func One(ctx context.Context, e domain.Embedder, text string, timeout time.Duration) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	v, err := e.EmbedOne(ctx, text)
	if err != nil {
		return nil, classify(ctx, e, err)
	}
	return v, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func classify(ctx context.Context, e domain.Embedder, err error) error {
	if errors.Is(err, domain.ErrEmbeddingTimeout) || errors.Is(err, domain.ErrEmbeddingFailure) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domain.ErrEmbeddingTimeout, e.Name(), err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrEmbeddingFailure, e.Name(), err)
}
