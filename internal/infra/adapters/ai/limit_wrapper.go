package ai

import (
	"context"

	"ad-video-pipeline/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.TextGenerator = (*limitedText)(nil)

type limitedText struct {
	inner adapter.TextGenerator
	sem   chan struct{}
}

// NewLimitedText caps concurrent text-generation calls across pipeline
// runs with a simple semaphore.
func NewLimitedText(inner adapter.TextGenerator, maxConcurrent int) adapter.TextGenerator {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedText{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedText) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Complete(ctx, prompt)
}
