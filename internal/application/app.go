// File: internal/application/app.go
package application

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/config"
	"ad-video-pipeline/internal/domain/ports/adapter"
	"ad-video-pipeline/internal/infra/adapters/ai"
	"ad-video-pipeline/internal/infra/adapters/bedrock"
	"ad-video-pipeline/internal/infra/adapters/speech"
	"ad-video-pipeline/internal/infra/media"
	s3store "ad-video-pipeline/internal/infra/storage/s3"
	"ad-video-pipeline/internal/usecase"
)

// App is the composition root: the CLI and the server both assemble the
// pipeline through Build so adapter selection stays in one place.
type App struct {
	Cfg      *config.Config
	Store    adapter.ObjectStore
	Pipeline *usecase.PipelineUseCase
	Log      *zerolog.Logger
}

func Build(ctx context.Context, cfg *config.Config, log *zerolog.Logger) (*App, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	store := s3store.NewStore(awsCfg, cfg.Storage.Region, cfg.Storage.Endpoint, cfg.Storage.UsePathStyle)
	if err := store.EnsureBucket(ctx, cfg.Storage.Bucket); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.Storage.Bucket, err)
	}

	text := buildTextGenerator(ctx, cfg, awsCfg, log)
	if cfg.Text.ConcurrentLimit > 0 {
		text = ai.NewLimitedText(text, cfg.Text.ConcurrentLimit)
	}

	var image adapter.ImageGenerator
	if cfg.Image.Model != "" {
		image = bedrock.NewNovaCanvasGenerator(awsCfg, cfg.Image.Model, cfg.Image.Width, cfg.Image.Height)
		log.Info().Str("model", cfg.Image.Model).Msg("image generator: Nova Canvas")
	} else {
		image = media.NewPlaceholderGenerator(cfg.Image.Width, cfg.Image.Height)
		log.Info().Msg("image generator: local placeholder")
	}

	video := bedrock.NewNovaReelGenerator(awsCfg, cfg.Video.Model)
	tts := speech.NewPollySynthesizer(awsCfg, cfg.Speech.Voice, cfg.Speech.Engine, cfg.Speech.SampleRate)

	muxer, err := media.NewFFmpegMuxer(cfg.Media.FFmpegBin, cfg.Media.FFprobeBin, cfg.Media.CRF, cfg.Media.MaxRate, cfg.Media.BufSize)
	if err != nil {
		return nil, err
	}

	bucket := cfg.Storage.Bucket
	pipeline := usecase.NewPipelineUseCase(
		usecase.NewStrategyUseCase(text, log),
		usecase.NewImageUseCase(image, store, bucket, log),
		usecase.NewVideoJobUseCase(video, store, bucket, usecase.VideoJobConfig{
			DurationSeconds: cfg.Video.DurationSeconds,
			FPS:             cfg.Video.FPS,
			Dimension:       cfg.Video.Dimension,
			MaxPromptChars:  cfg.Video.MaxPromptChars,
			PollInterval:    cfg.Video.PollInterval,
			PollCeiling:     cfg.Video.PollCeiling,
		}, log),
		usecase.NewVoiceUseCase(tts, store, bucket, log),
		usecase.NewMergeUseCase(store, muxer, bucket, log),
		log,
	)

	return &App{Cfg: cfg, Store: store, Pipeline: pipeline, Log: log}, nil
}

// buildTextGenerator picks the strategy endpoint: an explicit provider
// pin wins, otherwise the first configured one of Gemini, OpenAI,
// Bedrock. The noop generator answers with the fallback strategy and is
// only used when pinned.
func buildTextGenerator(ctx context.Context, cfg *config.Config, awsCfg aws.Config, log *zerolog.Logger) adapter.TextGenerator {
	t := cfg.Text
	switch t.Provider {
	case "gemini":
		return geminiOrNoop(ctx, t, log)
	case "openai":
		return openAIOrNoop(t, log)
	case "bedrock":
		log.Info().Str("model", t.BedrockModel).Msg("text generator: Bedrock")
		return bedrock.NewNovaTextGenerator(awsCfg, t.BedrockModel, t.MaxTokens)
	case "noop":
		log.Warn().Msg("text generator: noop (fallback strategies only)")
		return ai.NewNoopTextGenerator()
	}

	if t.GeminiKey != "" {
		return geminiOrNoop(ctx, t, log)
	}
	if t.OpenAIKey != "" {
		return openAIOrNoop(t, log)
	}
	log.Info().Str("model", t.BedrockModel).Msg("text generator: Bedrock")
	return bedrock.NewNovaTextGenerator(awsCfg, t.BedrockModel, t.MaxTokens)
}

func geminiOrNoop(ctx context.Context, t config.TextConfig, log *zerolog.Logger) adapter.TextGenerator {
	gen, err := ai.NewGeminiTextGenerator(ctx, t.GeminiKey, t.GeminiURL, t.Model, t.MaxTokens)
	if err != nil {
		log.Error().Err(err).Msg("gemini unavailable, using noop text generator")
		return ai.NewNoopTextGenerator()
	}
	log.Info().Str("model", t.Model).Msg("text generator: Gemini")
	return gen
}

func openAIOrNoop(t config.TextConfig, log *zerolog.Logger) adapter.TextGenerator {
	gen, err := ai.NewOpenAITextGenerator(t.OpenAIKey, t.Model)
	if err != nil {
		log.Error().Err(err).Msg("openai unavailable, using noop text generator")
		return ai.NewNoopTextGenerator()
	}
	log.Info().Str("model", t.Model).Msg("text generator: OpenAI")
	return gen
}
