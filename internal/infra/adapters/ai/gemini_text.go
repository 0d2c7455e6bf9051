package ai

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"

	"ad-video-pipeline/internal/domain/ports/adapter"
	"ad-video-pipeline/internal/infra/metrics"
)

var _ adapter.TextGenerator = (*GeminiTextGenerator)(nil)

// GeminiTextGenerator implements adapter.TextGenerator using the official
// Gemini SDK.
type GeminiTextGenerator struct {
	client *genai.Client
	model  string
	maxOut int
}

func NewGeminiTextGenerator(ctx context.Context, apiKey, baseURL, model string, maxOut int) (*GeminiTextGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiTextGenerator{client: c, model: model, maxOut: maxOut}, nil
}

func (g *GeminiTextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(g.maxOut),
		},
	)
	metrics.ObserveTextCall("gemini", g.model, int(time.Since(start)/time.Millisecond), err == nil)
	if err != nil {
		return "", err
	}

	// Extract text and usage
	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if resp != nil && resp.UsageMetadata != nil {
		metrics.AddTextPromptTokens("gemini", g.model, int(resp.UsageMetadata.PromptTokenCount))
	}
	if text == "" {
		return "", errors.New("gemini: empty completion")
	}
	return text, nil
}
