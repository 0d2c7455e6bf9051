package ai

import (
	"context"
	"encoding/json"
	"time"

	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*NoopTextGenerator)(nil)

// NoopTextGenerator implements adapter.TextGenerator for local/dev runs
// without any AI provider configured. It returns a canned strategy JSON
// derived from the prompt so the rest of the pipeline can be exercised.
type NoopTextGenerator struct{}

func NewNoopTextGenerator() *NoopTextGenerator {
	return &NoopTextGenerator{}
}

func (a *NoopTextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	b, err := json.Marshal(model.FallbackStrategy("a locally generated test ad"))
	if err != nil {
		return "", err
	}
	return string(b), nil
}
