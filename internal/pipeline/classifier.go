package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/plata/internal/llm"
	"github.com/Veraticus/plata/internal/model"
)

// Generator is the gateway surface the pipeline depends on.
type Generator interface {
	Generate(ctx context.Context, req llm.Request) (llm.Output, error)
}

// Classifier detects the intent of a raw message.
type Classifier struct {
	gen    Generator
	logger *slog.Logger
}

// NewClassifier creates a classifier backed by gen.
func NewClassifier(gen Generator, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{gen: gen, logger: logger}
}

// DetectAction classifies content. Content must be non-empty; callers reject
// blank messages before reaching the pipeline. Retries are left to the
// gateway.
func (c *Classifier) DetectAction(ctx context.Context, content string) (model.Action, error) {
	out, err := c.gen.Generate(ctx, llm.Request{
		SystemPrompt: classificationPrompt,
		HumanPrompt:  content,
		Shape:        llm.ShapeAction,
	})
	if err != nil {
		return model.Action{}, fmt.Errorf("%w: %w", ErrClassification, err)
	}

	decoded, ok := out.(llm.ActionOutput)
	if !ok {
		return model.Action{}, fmt.Errorf("%w: got %T", ErrClassification, out)
	}

	action := decoded.Action
	if strings.TrimSpace(action.Message) == "" {
		action.Message = content
	}

	c.logger.Debug("Message classified", "action", action.Type)
	return action, nil
}
