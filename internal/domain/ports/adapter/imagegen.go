package adapter

import "context"

// ImageGenerator produces PNG bytes for a reference still image.
// Backends: a generative endpoint, or a local placeholder renderer when
// no image-generation access is configured.
type ImageGenerator interface {
	// Generate returns 1280x720 PNG bytes for the prompt.
	Generate(ctx context.Context, prompt string) ([]byte, error)
}
