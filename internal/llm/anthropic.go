package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/plata/internal/common"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-3-5-haiku-latest"

// anthropicProvider wraps the official SDK. The SDK's own retries are
// disabled so the Gateway stays in charge of retry and fallback policy.
type anthropicProvider struct {
	client      anthropic.Client
	label       string
	model       string
	temperature float64
	maxTokens   int64
}

func newAnthropicProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	label := cfg.Label
	if label == "" {
		label = "anthropic"
	}

	return &anthropicProvider{
		client:      anthropic.NewClient(opts...),
		label:       label,
		model:       model,
		temperature: temperature,
		maxTokens:   int64(maxTokens),
	}, nil
}

func (p *anthropicProvider) Name() string { return p.label }

// Complete sends the prompt pair with the schema appended to the system prompt.
func (p *anthropicProvider) Complete(ctx context.Context, req Request) (string, error) {
	msg, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   p.maxTokens,
		Temperature: anthropic.Float(p.temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt + "\n\n" + SchemaInstruction(req.Shape)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.HumanPrompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus(fmt.Errorf("anthropic: %w", err), apiErr.StatusCode)
		}
		return "", common.Transient(fmt.Errorf("anthropic request failed: %w", err))
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", common.Permanent(common.ErrEmptyResponse)
	}
	return text, nil
}
