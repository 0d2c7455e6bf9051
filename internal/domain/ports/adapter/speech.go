package adapter

import "context"

// SpeechSynthesizer is the port for the text-to-speech endpoint.
type SpeechSynthesizer interface {
	// Synthesize converts the script to compressed audio (mp3) and
	// returns the encoded bytes.
	Synthesize(ctx context.Context, script string) ([]byte, error)
}
