package ai

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"ad-video-pipeline/internal/domain/ports/adapter"
	"ad-video-pipeline/internal/infra/metrics"
)

var _ adapter.TextGenerator = (*OpenAITextGenerator)(nil)

// OpenAITextGenerator implements adapter.TextGenerator using the official
// OpenAI SDK. Prompt tokens are estimated locally with tiktoken so the
// token metric is populated even when the provider omits usage.
type OpenAITextGenerator struct {
	client openai.Client
	model  string
	enc    *tiktoken.Tiktoken
}

func NewOpenAITextGenerator(apiKey, model string) (*OpenAITextGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai: empty api key")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &OpenAITextGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
		enc:    enc,
	}, nil
}

func (o *OpenAITextGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	metrics.ObserveTextCall("openai", o.model, int(time.Since(start)/time.Millisecond), err == nil)
	if err != nil {
		return "", err
	}

	promptTokens := int(resp.Usage.PromptTokens)
	if promptTokens == 0 {
		promptTokens = len(o.enc.Encode(prompt, nil, nil))
	}
	metrics.AddTextPromptTokens("openai", o.model, promptTokens)

	for _, c := range resp.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("openai: no choice content")
}
