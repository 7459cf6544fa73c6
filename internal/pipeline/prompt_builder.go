package pipeline

import (
	"fmt"
	"time"

	"github.com/Veraticus/plata/internal/llm"
	"github.com/Veraticus/plata/internal/model"
)

var weekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

// PromptBuilder maps a detected action to the request sent to the gateway.
type PromptBuilder struct {
	now func() time.Time
}

// NewPromptBuilder creates a builder that reads the current date from now.
// A nil now reads the wall clock.
func NewPromptBuilder(now func() time.Time) *PromptBuilder {
	if now == nil {
		now = model.CurrentTime
	}
	return &PromptBuilder{now: now}
}

// Build returns the prompt pair and output shape for action.
func (b *PromptBuilder) Build(content string, action model.Action) (llm.Request, error) {
	switch action.Type {
	case model.ActionTransaction:
		message := action.Message
		if message == "" {
			message = content
		}
		now := b.now().In(model.ReferenceLocation)
		return llm.Request{
			SystemPrompt: transactionPrompt(now),
			HumanPrompt:  message,
			Shape:        llm.ShapeFinancialActions,
			Now:          now,
		}, nil
	case model.ActionQuestion:
		return textRequest(questionPrompt, content), nil
	case model.ActionSocial:
		return textRequest(socialPrompt, content), nil
	case model.ActionUnknown:
		return textRequest(unknownPrompt, content), nil
	default:
		return llm.Request{}, fmt.Errorf("%w: %q", ErrPromptBuilder, action.Type)
	}
}

func transactionPrompt(now time.Time) string {
	return fmt.Sprintf(transactionPromptTemplate,
		now.Format("2006-01-02 15:04"),
		weekdays[now.Weekday()],
		model.ReferenceTimezone)
}

func textRequest(system, content string) llm.Request {
	return llm.Request{SystemPrompt: system, HumanPrompt: content, Shape: llm.ShapeText}
}
