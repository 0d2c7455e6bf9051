package bedrock

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"ad-video-pipeline/internal/domain/ports/adapter"
)

var _ adapter.ImageGenerator = (*NovaCanvasGenerator)(nil)

// NovaCanvasGenerator implements adapter.ImageGenerator against the Nova
// Canvas text-to-image model.
type NovaCanvasGenerator struct {
	client *bedrockruntime.Client
	model  string
	width  int
	height int
}

func NewNovaCanvasGenerator(cfg aws.Config, model string, width, height int) *NovaCanvasGenerator {
	return &NovaCanvasGenerator{
		client: bedrockruntime.NewFromConfig(cfg),
		model:  model,
		width:  width,
		height: height,
	}
}

func (g *NovaCanvasGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	reqBody := map[string]any{
		"taskType": "TEXT_IMAGE",
		"textToImageParams": map[string]string{
			"text": prompt,
		},
		"imageGenerationConfig": map[string]any{
			"numberOfImages": 1,
			"height":         g.height,
			"width":          g.width,
			"cfgScale":       8.0,
			"seed":           rand.Int32(),
		},
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	out, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(g.model),
		Body:        b,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("invoke %s: %w", g.model, err)
	}

	var payload struct {
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(out.Body, &payload); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", g.model, err)
	}
	if len(payload.Images) == 0 {
		return nil, errors.New("canvas: no images in response")
	}
	img, err := base64.StdEncoding.DecodeString(payload.Images[0])
	if err != nil {
		return nil, fmt.Errorf("decode image payload: %w", err)
	}
	return img, nil
}
