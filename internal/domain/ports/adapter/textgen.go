package adapter

import "context"

// TextGenerator is the port for the text-generation endpoint used by the
// strategy stage. Implementations return the raw model text; parsing and
// fallback live in the use case.
type TextGenerator interface {
	// Complete sends a single-turn instruction prompt and returns the
	// model's text response.
	Complete(ctx context.Context, prompt string) (string, error)
}
