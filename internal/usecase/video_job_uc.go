package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain"
	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
	"ad-video-pipeline/internal/infra/metrics"
)

// VideoJobConfig carries the fixed submission parameters and the poll
// cadence.
type VideoJobConfig struct {
	DurationSeconds int
	FPS             int
	Dimension       string
	MaxPromptChars  int
	PollInterval    time.Duration
	PollCeiling     time.Duration
}

// VideoJobUseCase drives one asynchronous video-generation job from
// submission to a terminal outcome: a fixed-interval poll loop with an
// explicit elapsed-time ceiling, no backoff. A failed poll call is
// transient and re-polled; only a reported Failed status, a missing
// output, or the ceiling end the job unsuccessfully.
type VideoJobUseCase struct {
	gen    adapter.VideoGenerator
	store  adapter.ObjectStore
	bucket string
	cfg    VideoJobConfig
	log    *zerolog.Logger

	// sleep is replaceable in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewVideoJobUseCase(gen adapter.VideoGenerator, store adapter.ObjectStore, bucket string, cfg VideoJobConfig, logger *zerolog.Logger) *VideoJobUseCase {
	l := logger.With().Str("component", "VideoJobUseCase").Logger()
	return &VideoJobUseCase{
		gen:    gen,
		store:  store,
		bucket: bucket,
		cfg:    cfg,
		log:    &l,
		sleep:  sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run submits the job seeded with the reference image and polls it to
// completion, returning the located output artifact.
func (uc *VideoJobUseCase) Run(ctx context.Context, videoPrompt string, refImage model.Artifact) (model.Artifact, error) {
	prompt := clipPrompt(videoPrompt, uc.cfg.MaxPromptChars)

	imageBytes, err := uc.store.Get(ctx, refImage)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("fetch reference image: %w", err)
	}

	outputPrefix := model.Artifact{
		Bucket: uc.bucket,
		Key:    "generated_videos/video_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
	}
	invocationID, err := uc.gen.Submit(ctx, adapter.VideoJobSpec{
		Prompt:          prompt,
		ReferenceImage:  imageBytes,
		DurationSeconds: uc.cfg.DurationSeconds,
		FPS:             uc.cfg.FPS,
		Dimension:       uc.cfg.Dimension,
		Seed:            rand.Int64N(2147483648),
		OutputPrefix:    outputPrefix,
	})
	if err != nil {
		return model.Artifact{}, fmt.Errorf("submit video job: %w", err)
	}
	metrics.IncVideoJobSubmission()
	uc.log.Info().Str("invocation_id", invocationID).Str("output_prefix", outputPrefix.URI()).Msg("video job submitted")

	return uc.poll(ctx, model.VideoJob{
		InvocationID: invocationID,
		Status:       model.JobStatusSubmitted,
		OutputPrefix: outputPrefix,
	})
}

func (uc *VideoJobUseCase) poll(ctx context.Context, job model.VideoJob) (model.Artifact, error) {
	var elapsed time.Duration
	for elapsed < uc.cfg.PollCeiling {
		state, err := uc.gen.Status(ctx, job.InvocationID)
		if err != nil {
			// Transient: a failed poll call says nothing about the job.
			metrics.IncVideoJobPoll("error")
			uc.log.Warn().Err(err).Dur("elapsed", elapsed).Msg("status poll failed, retrying")
		} else {
			job.Status = state.Status
			job.FailureMessage = state.FailureMessage
			metrics.IncVideoJobPoll(string(job.Status))
			uc.log.Debug().Str("status", string(job.Status)).Dur("elapsed", elapsed).Msg("video job status")

			switch job.Status {
			case model.JobStatusCompleted:
				art, err := uc.locateOutput(ctx, job.OutputPrefix)
				if err != nil {
					metrics.ObserveVideoJobOutcome("integrity", elapsed)
					return model.Artifact{}, err
				}
				metrics.ObserveVideoJobOutcome("completed", elapsed)
				return art, nil
			case model.JobStatusFailed:
				metrics.ObserveVideoJobOutcome("failed", elapsed)
				return model.Artifact{}, fmt.Errorf("%w: %s", domain.ErrJobFailed, job.FailureReason())
			}
		}

		if err := uc.sleep(ctx, uc.cfg.PollInterval); err != nil {
			return model.Artifact{}, err
		}
		elapsed += uc.cfg.PollInterval
	}

	metrics.ObserveVideoJobOutcome("timeout", elapsed)
	return model.Artifact{}, fmt.Errorf("%w after %s", domain.ErrJobTimedOut, elapsed)
}

// locateOutput lists the job's output prefix and returns the first object
// with the expected video extension.
func (uc *VideoJobUseCase) locateOutput(ctx context.Context, prefix model.Artifact) (model.Artifact, error) {
	keys, err := uc.store.List(ctx, prefix.Bucket, prefix.Key)
	if err != nil {
		return model.Artifact{}, fmt.Errorf("list job output: %w", err)
	}
	for _, key := range keys {
		if strings.HasSuffix(key, ".mp4") {
			return model.Artifact{Bucket: prefix.Bucket, Key: key}, nil
		}
	}
	return model.Artifact{}, fmt.Errorf("%w under %s", domain.ErrOutputMissing, prefix.URI())
}

// clipPrompt truncates the prompt to the endpoint's hard limit; longer
// prompts are clipped, not rejected. The limit counts characters, not
// bytes, so a multi-byte prompt is never cut mid-rune.
func clipPrompt(prompt string, max int) string {
	if max <= 0 {
		return prompt
	}
	r := []rune(prompt)
	if len(r) > max {
		return string(r[:max])
	}
	return prompt
}
