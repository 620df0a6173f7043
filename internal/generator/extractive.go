package generator

import (
	"context"
	"strings"

	"ragqa/internal/domain"
)

// Extractive answers without a language model by summarizing the passages.
type Extractive struct {
	summarizer   domain.Summarizer
	maxSentences int
}

// NewExtractive returns a generator backed by s.
func NewExtractive(s domain.Summarizer, maxSentences int) *Extractive {
	return &Extractive{summarizer: s, maxSentences: maxSentences}
}

func (e *Extractive) Generate(ctx context.Context, passages []string, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	answer, err := e.summarizer.Summarize(strings.Join(passages, "\n"), e.maxSentences)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return DontKnow, nil
	}
	return answer, nil
}
