package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/plata/internal/common"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

// geminiProvider calls the Gemini API with native structured output.
type geminiProvider struct {
	client      *genai.Client
	label       string
	model       string
	temperature float32
	maxTokens   int32
}

func newGeminiProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
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
		label = "gemini"
	}

	return &geminiProvider{
		client:      client,
		label:       label,
		model:       model,
		temperature: float32(temperature),
		maxTokens:   int32(maxTokens),
	}, nil
}

func (p *geminiProvider) Name() string { return p.label }

// Complete sends the prompt pair with the shape schema as response schema.
func (p *geminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(req.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(p.temperature),
		MaxOutputTokens:   p.maxTokens,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    toGenaiSchema(req.Shape.Schema()),
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.HumanPrompt), config)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", common.Permanent(common.ErrEmptyResponse)
	}
	return text, nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(fmt.Errorf("gemini: %w", err), apiErr.Code)
	}
	// Transport failures and timeouts.
	return common.Transient(fmt.Errorf("gemini request failed: %w", err))
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
		Enum:        s.Enum,
	}
	if s.Nullable {
		out.Nullable = genai.Ptr(true)
	}

	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
	case TypeArray:
		out.Type = genai.TypeArray
	case TypeNumber:
		out.Type = genai.TypeNumber
	default:
		out.Type = genai.TypeString
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	out.Items = toGenaiSchema(s.Items)

	return out
}
