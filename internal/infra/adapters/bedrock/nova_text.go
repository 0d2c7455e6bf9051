package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"ad-video-pipeline/internal/domain/ports/adapter"
	"ad-video-pipeline/internal/infra/metrics"
)

var _ adapter.TextGenerator = (*NovaTextGenerator)(nil)

// NovaTextGenerator implements adapter.TextGenerator against the Bedrock
// runtime's Nova text models (messages-v1 schema).
type NovaTextGenerator struct {
	client    *bedrockruntime.Client
	model     string
	maxTokens int
}

func NewNovaTextGenerator(cfg aws.Config, model string, maxTokens int) *NovaTextGenerator {
	return &NovaTextGenerator{
		client:    bedrockruntime.NewFromConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

type novaMessage struct {
	Role    string `json:"role"`
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (g *NovaTextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"messages": []map[string]any{
			{"role": "user", "content": []map[string]string{{"text": prompt}}},
		},
		"inferenceConfig": map[string]any{
			"maxTokens":   g.maxTokens,
			"temperature": 0.7,
			"topP":        0.9,
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	start := time.Now()
	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.model),
		Body:        b,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	metrics.ObserveTextCall("bedrock", g.model, int(time.Since(start)/time.Millisecond), err == nil)
	if err != nil {
		return "", fmt.Errorf("invoke %s: %w", g.model, err)
	}

	var payload struct {
		Output struct {
			Message novaMessage `json:"message"`
		} `json:"output"`
		Usage struct {
			InputTokens int `json:"inputTokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(out.Body, &payload); err != nil {
		return "", fmt.Errorf("decode %s response: %w", g.model, err)
	}
	metrics.AddTextPromptTokens("bedrock", g.model, payload.Usage.InputTokens)

	for _, c := range payload.Output.Message.Content {
		if c.Text != "" {
			return c.Text, nil
		}
	}
	return "", errors.New("nova: empty completion")
}
