package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/plata/internal/common"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// openAIProvider talks to the chat completions endpoint directly.
type openAIProvider struct {
	httpClient  *http.Client
	label       string
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat map[string]any  `json:"response_format,omitempty"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func newOpenAIProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2048
	}

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	label := cfg.Label
	if label == "" {
		label = "openai"
	}

	return &openAIProvider{
		label:       label,
		baseURL:     baseURL,
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient:  newHTTPClient(30 * time.Second),
	}, nil
}

func (p *openAIProvider) Name() string { return p.label }

// Complete requests a JSON object completion with the schema embedded in
// the system prompt.
func (p *openAIProvider) Complete(ctx context.Context, req Request) (string, error) {
	body := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: req.SystemPrompt + "\n\n" + SchemaInstruction(req.Shape)},
			{Role: "user", Content: req.HumanPrompt},
		},
		Temperature:    p.temperature,
		MaxTokens:      p.maxTokens,
		ResponseFormat: map[string]any{"type": "json_object"},
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", common.Permanent(fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", common.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", common.Transient(fmt.Errorf("request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", common.Transient(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(&statusError{Provider: "OpenAI", Status: resp.StatusCode, Body: string(respBody)}, resp.StatusCode)
	}

	var response openAIResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return "", common.Permanent(fmt.Errorf("failed to parse response: %w", err))
	}

	if len(response.Choices) == 0 {
		return "", common.Permanent(fmt.Errorf("no completion choices returned: %w", common.ErrEmptyResponse))
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", common.Permanent(common.ErrEmptyResponse)
	}
	return content, nil
}
