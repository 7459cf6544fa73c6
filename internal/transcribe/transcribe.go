// Package transcribe turns voice messages into text with Gemini.
package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/plata/internal/common"
	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.0-flash"

	instruction = "Transcribí este audio en español tal como fue dicho, sin agregar comentarios ni traducir. " +
		"Escribí los montos con números."
)

// ErrEmptyAudio is returned for zero-length input.
var ErrEmptyAudio = errors.New("audio is empty")

// Config configures the transcriber.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Transcriber implements service.Transcriber on the Gemini API.
type Transcriber struct {
	client *genai.Client
	model  string
}

// New creates a transcriber.
func New(ctx context.Context, cfg Config) (*Transcriber, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: transcription API key", common.ErrMissingConfig)
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
		model = defaultModel
	}

	return &Transcriber{client: client, model: model}, nil
}

// Transcribe sends audio inline and returns the transcript.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", ErrEmptyAudio
	}
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(audio, mimeType),
		}, genai.RoleUser),
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("transcription failed: %w", common.ErrEmptyResponse)
	}
	return text, nil
}
