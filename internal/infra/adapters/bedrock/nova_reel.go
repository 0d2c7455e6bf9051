package bedrock

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"ad-video-pipeline/internal/domain/model"
	"ad-video-pipeline/internal/domain/ports/adapter"
)

var _ adapter.VideoGenerator = (*NovaReelGenerator)(nil)

// NovaReelGenerator implements adapter.VideoGenerator against Nova Reel's
// asynchronous invoke API. The service writes the finished video directly
// into the caller-supplied storage prefix; we never stream it ourselves.
type NovaReelGenerator struct {
	client *bedrockruntime.Client
	model  string
}

func NewNovaReelGenerator(cfg aws.Config, model string) *NovaReelGenerator {
	return &NovaReelGenerator{client: bedrockruntime.NewFromConfig(cfg), model: model}
}

func (g *NovaReelGenerator) Submit(ctx context.Context, spec adapter.VideoJobSpec) (string, error) {
	if len(spec.ReferenceImage) == 0 {
		return "", errors.New("reel: empty reference image")
	}
	modelInput := map[string]any{
		"taskType": "TEXT_VIDEO",
		"textToVideoParams": map[string]any{
			"text": spec.Prompt,
			"images": []map[string]any{
				{
					"format": "png",
					"source": map[string]string{
						"bytes": base64.StdEncoding.EncodeToString(spec.ReferenceImage),
					},
				},
			},
		},
		"videoGenerationConfig": map[string]any{
			"durationSeconds": spec.DurationSeconds,
			"fps":             spec.FPS,
			"dimension":       spec.Dimension,
			"seed":            spec.Seed,
		},
	}

	out, err := g.client.StartAsyncInvoke(ctx, &bedrockruntime.StartAsyncInvokeInput{
		ModelId:    aws.String(g.model),
		ModelInput: document.NewLazyDocument(modelInput),
		OutputDataConfig: &types.AsyncInvokeOutputDataConfigMemberS3OutputDataConfig{
			Value: types.AsyncInvokeS3OutputDataConfig{
				S3Uri: aws.String(spec.OutputPrefix.URI() + "/"),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("start async invoke %s: %w", g.model, err)
	}
	return aws.ToString(out.InvocationArn), nil
}

func (g *NovaReelGenerator) Status(ctx context.Context, invocationID string) (adapter.JobState, error) {
	out, err := g.client.GetAsyncInvoke(ctx, &bedrockruntime.GetAsyncInvokeInput{
		InvocationArn: aws.String(invocationID),
	})
	if err != nil {
		return adapter.JobState{}, fmt.Errorf("get async invoke: %w", err)
	}
	return adapter.JobState{
		Status:         model.ParseJobStatus(string(out.Status)),
		FailureMessage: aws.ToString(out.FailureMessage),
	}, nil
}
