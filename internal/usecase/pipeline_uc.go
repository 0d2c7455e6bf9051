package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/infra/logging"
	"ad-video-pipeline/internal/infra/metrics"
)

// Stage names in execution order, as surfaced to front-ends.
const (
	StageStrategy = "strategy"
	StageImage    = "image"
	StageVideo    = "video"
	StageVoice    = "voice"
	StageMerge    = "merge"
)

// ProgressFunc is called as each stage begins. Front-ends use it to
// render intermediate progress; a nil func is fine.
type ProgressFunc func(stage string, result model.PipelineResult)

// PipelineUseCase sequences the five stages. Strategy generation never
// fails; any later stage failure stops the run but the already-produced
// partial results are kept and returned alongside the error.
type PipelineUseCase struct {
	strategy *StrategyUseCase
	image    *ImageUseCase
	video    *VideoJobUseCase
	voice    *VoiceUseCase
	merge    *MergeUseCase
	log      *zerolog.Logger
}

func NewPipelineUseCase(
	strategy *StrategyUseCase,
	image *ImageUseCase,
	video *VideoJobUseCase,
	voice *VoiceUseCase,
	merge *MergeUseCase,
	logger *zerolog.Logger,
) *PipelineUseCase {
	l := logger.With().Str("component", "PipelineUseCase").Logger()
	return &PipelineUseCase{
		strategy: strategy,
		image:    image,
		video:    video,
		voice:    voice,
		merge:    merge,
		log:      &l,
	}
}

// Run executes the full pipeline for one ad description. The returned
// PipelineResult is always meaningful: on error it holds everything the
// run produced before the failing stage.
func (uc *PipelineUseCase) Run(ctx context.Context, description string, progress ProgressFunc) (model.PipelineResult, error) {
	var result model.PipelineResult
	if strings.TrimSpace(description) == "" {
		return result, fmt.Errorf("%w: empty ad description", domain.ErrInvalidArgument)
	}
	log := logging.With(ctx, uc.log)
	defer logging.TraceDuration(log, "PipelineUseCase.Run")()
	notify := func(stage string) {
		if progress != nil {
			progress(stage, result)
		}
	}

	notify(StageStrategy)
	result.Strategy = uc.runStrategy(ctx, description)

	notify(StageImage)
	image, err := timeStage(ctx, StageImage, func(ctx context.Context) (model.Artifact, error) {
		return uc.image.Produce(ctx, result.Strategy.ImagePrompt)
	})
	if err != nil {
		return uc.fail(log, result, StageImage, err)
	}
	result.Image = image

	notify(StageVideo)
	video, err := timeStage(ctx, StageVideo, func(ctx context.Context) (model.Artifact, error) {
		return uc.video.Run(ctx, result.Strategy.VideoPrompt, result.Image)
	})
	if err != nil {
		return uc.fail(log, result, StageVideo, err)
	}
	result.Video = video

	notify(StageVoice)
	audio, err := timeStage(ctx, StageVoice, func(ctx context.Context) (model.Artifact, error) {
		return uc.voice.Produce(ctx, result.Strategy.AudioScript)
	})
	if err != nil {
		return uc.fail(log, result, StageVoice, err)
	}
	result.Audio = audio

	notify(StageMerge)
	final, err := timeStage(ctx, StageMerge, func(ctx context.Context) (model.Artifact, error) {
		return uc.merge.Merge(ctx, result.Video, result.Audio)
	})
	if err != nil {
		return uc.fail(log, result, StageMerge, err)
	}
	result.Final = final

	metrics.IncPipelineRun("completed")
	log.Info().Str("final", result.Final.URI()).Msg("pipeline run completed")
	return result, nil
}

func (uc *PipelineUseCase) runStrategy(ctx context.Context, description string) model.Strategy {
	start := time.Now()
	s := uc.strategy.Generate(logging.WithStage(ctx, StageStrategy), description)
	metrics.ObserveStage(StageStrategy, time.Since(start), true)
	return s
}

func (uc *PipelineUseCase) fail(log *zerolog.Logger, result model.PipelineResult, stage string, err error) (model.PipelineResult, error) {
	metrics.IncPipelineRun("failed")
	log.Error().Err(err).Str("stage", stage).Msg("pipeline run failed")
	return result, fmt.Errorf("%s stage: %w", stage, err)
}

// timeStage runs one stage with the stage name on the context logger and
// its duration observed.
func timeStage(ctx context.Context, stage string, fn func(ctx context.Context) (model.Artifact, error)) (model.Artifact, error) {
	start := time.Now()
	art, err := fn(logging.WithStage(ctx, stage))
	metrics.ObserveStage(stage, time.Since(start), err == nil)
	return art, err
}
