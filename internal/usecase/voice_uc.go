package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

// VoiceUseCase synthesizes the voiceover track and persists it. No retry
// and no placeholder fallback: a failed synthesis is fatal for the run.
type VoiceUseCase struct {
	tts    adapter.SpeechSynthesizer
	store  adapter.ObjectStore
	bucket string
	log    *zerolog.Logger
}

func NewVoiceUseCase(tts adapter.SpeechSynthesizer, store adapter.ObjectStore, bucket string, logger *zerolog.Logger) *VoiceUseCase {
	l := logger.With().Str("component", "VoiceUseCase").Logger()
	return &VoiceUseCase{tts: tts, store: store, bucket: bucket, log: &l}
}

func (uc *VoiceUseCase) Produce(ctx context.Context, script string) (model.Artifact, error) {
	audio, err := uc.tts.Synthesize(ctx, script)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("synthesize voiceover: %w", err)
	}

	art := model.Artifact{
		Bucket: uc.bucket,
		Key:    fmt.Sprintf("generated_audio/voiceover_%s.mp3", uuid.NewString()),
	}
	if err := uc.store.Put(ctx, art, audio, "audio/mpeg"); err != nil {
		return model.Artifact{}, fmt.Errorf("upload voiceover: %w", err)
	}
	uc.log.Info().Str("artifact", art.URI()).Int("bytes", len(audio)).Msg("voiceover stored")
	return art, nil
}
