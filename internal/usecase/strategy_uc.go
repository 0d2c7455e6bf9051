package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
	"ad-video-pipeline/internal/infra/metrics"
)

const strategyPromptTemplate = `Create a comprehensive content strategy for a video advertisement about: %s

Generate:
1. A detailed image prompt for creating a reference image (1280x720, professional, high-quality, commercial style)
2. A detailed video prompt for creating a 6-second engaging commercial-style video with camera movements
3. An audio script for voiceover (15-20 words, compelling and memorable)

Return ONLY a valid JSON object with keys: image_prompt, video_prompt, audio_script`

// StrategyUseCase turns an ad description into a Strategy. Generation is
// attempted once against the text endpoint; any failure (call error,
// unparseable response, missing key) substitutes the deterministic
// fallback, so Generate never returns an error.
type StrategyUseCase struct {
	text adapter.TextGenerator
	log  *zerolog.Logger
}

func NewStrategyUseCase(text adapter.TextGenerator, logger *zerolog.Logger) *StrategyUseCase {
	l := logger.With().Str("component", "StrategyUseCase").Logger()
	return &StrategyUseCase{text: text, log: &l}
}

func (uc *StrategyUseCase) Generate(ctx context.Context, description string) model.Strategy {
	raw, err := uc.text.Complete(ctx, fmt.Sprintf(strategyPromptTemplate, description))
	if err != nil {
		uc.log.Warn().Err(err).Msg("text generation failed, using fallback strategy")
		metrics.IncStrategyFallback()
		return model.FallbackStrategy(description)
	}

	strategy, err := parseStrategy(raw)
	if err != nil {
		uc.log.Warn().Err(err).Msg("strategy response unparseable, using fallback strategy")
		metrics.IncStrategyFallback()
		return model.FallbackStrategy(description)
	}
	return strategy
}

// parseStrategy extracts the JSON object between the first '{' and the
// last '}' of the raw model text, tolerating leading/trailing commentary.
func parseStrategy(raw string) (model.Strategy, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return model.Strategy{}, fmt.Errorf("no JSON object in response")
	}

	var s model.Strategy
	if err := json.Unmarshal([]byte(raw[start:end+1]), &s); err != nil {
		return model.Strategy{}, fmt.Errorf("decode strategy: %w", err)
	}
	if err := s.Validate(); err != nil {
		return model.Strategy{}, err
	}
	return s, nil
}
