package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

// ImageUseCase produces the reference still image and persists it. There
// is no safe fallback artifact for a missing image, so any failure is
// fatal for the run.
type ImageUseCase struct {
	gen    adapter.ImageGenerator
	store  adapter.ObjectStore
	bucket string
	log    *zerolog.Logger
}

func NewImageUseCase(gen adapter.ImageGenerator, store adapter.ObjectStore, bucket string, logger *zerolog.Logger) *ImageUseCase {
	l := logger.With().Str("component", "ImageUseCase").Logger()
	return &ImageUseCase{gen: gen, store: store, bucket: bucket, log: &l}
}

func (uc *ImageUseCase) Produce(ctx context.Context, imagePrompt string) (model.Artifact, error) {
	img, err := uc.gen.Generate(ctx, imagePrompt)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("generate reference image: %w", err)
	}

	art := model.Artifact{
		Bucket: uc.bucket,
		Key:    fmt.Sprintf("generated_images/ref_image_%s.png", uuid.NewString()),
	}
	if err := uc.store.Put(ctx, art, img, "image/png"); err != nil {
		return model.Artifact{}, fmt.Errorf("upload reference image: %w", err)
	}
	uc.log.Info().Str("artifact", art.URI()).Int("bytes", len(img)).Msg("reference image stored")
	return art, nil
}
