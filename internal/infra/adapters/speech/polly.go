package speech

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"

	"ad-video-pipeline/internal/domain/ports/adapter"
)

var _ adapter.SpeechSynthesizer = (*PollySynthesizer)(nil)

// PollySynthesizer implements adapter.SpeechSynthesizer against Amazon
// Polly, producing mp3 at a fixed sample rate with a neural voice.
type PollySynthesizer struct {
	client     *polly.Client
	voice      string
	engine     string
	sampleRate string
}

func NewPollySynthesizer(cfg aws.Config, voice, engine, sampleRate string) *PollySynthesizer {
	return &PollySynthesizer{
		client:     polly.NewFromConfig(cfg),
		voice:      voice,
		engine:     engine,
		sampleRate: sampleRate,
	}
}

func (p *PollySynthesizer) Synthesize(ctx context.Context, script string) ([]byte, error) {
	if strings.TrimSpace(script) == "" {
		return nil, errors.New("polly: empty script")
	}
	out, err := p.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(script),
		OutputFormat: types.OutputFormatMp3,
		VoiceId:      types.VoiceId(p.voice),
		Engine:       types.Engine(p.engine),
		SampleRate:   aws.String(p.sampleRate),
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("read audio stream: %w", err)
	}
	return audio, nil
}
