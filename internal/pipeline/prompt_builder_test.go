package pipeline

import (
	"testing"
	"time"

	"github.com/Veraticus/plata/internal/llm"
	"github.com/Veraticus/plata/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptBuilderBuild(t *testing.T) {
	// Friday 10 May 2024, late evening in Buenos Aires.
	now := time.Date(2024, 5, 10, 22, 30, 0, 0, model.ReferenceLocation)
	b := NewPromptBuilder(func() time.Time { return now })

	tests := []struct {
		name       string
		action     model.Action
		wantShape  llm.Shape
		wantSystem string
		wantHuman  string
	}{
		{
			name:       "transaction uses extraction template and sub-message",
			action:     model.Action{Type: model.ActionTransaction, Message: "gasté 500 en comida"},
			wantShape:  llm.ShapeFinancialActions,
			wantSystem: "extractor de movimientos financieros",
			wantHuman:  "gasté 500 en comida",
		},
		{
			name:       "question",
			action:     model.Action{Type: model.ActionQuestion, Message: "¿cuánto gasté?"},
			wantShape:  llm.ShapeText,
			wantSystem: questionPrompt,
			wantHuman:  "che, ¿cuánto gasté?",
		},
		{
			name:       "social",
			action:     model.Action{Type: model.ActionSocial, Message: "hola!"},
			wantShape:  llm.ShapeText,
			wantSystem: socialPrompt,
			wantHuman:  "che, ¿cuánto gasté?",
		},
		{
			name:       "unknown",
			action:     model.Action{Type: model.ActionUnknown, Message: "asdf"},
			wantShape:  llm.ShapeText,
			wantSystem: unknownPrompt,
			wantHuman:  "che, ¿cuánto gasté?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "che, ¿cuánto gasté?"
			if tt.action.Type == model.ActionTransaction {
				content = "hola! gasté 500 en comida"
			}

			req, err := b.Build(content, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.wantShape, req.Shape)
			assert.Contains(t, req.SystemPrompt, tt.wantSystem)
			assert.Equal(t, tt.wantHuman, req.HumanPrompt)
		})
	}
}

func TestPromptBuilderTransactionDate(t *testing.T) {
	// 02:00 UTC on Saturday is still Friday in Buenos Aires.
	now := time.Date(2024, 5, 11, 2, 0, 0, 0, time.UTC)
	b := NewPromptBuilder(func() time.Time { return now })

	req, err := b.Build("gasté 500 ayer", model.Action{Type: model.ActionTransaction, Message: "gasté 500 ayer"})
	require.NoError(t, err)
	assert.Contains(t, req.SystemPrompt, "2024-05-10 23:00 (viernes)")
	assert.Contains(t, req.SystemPrompt, model.ReferenceTimezone)
	assert.True(t, now.Equal(req.Now), "request carries the prompt's reference time")
	assert.Equal(t, model.ReferenceLocation, req.Now.Location())
}

func TestPromptBuilderEmptySubMessageUsesContent(t *testing.T) {
	b := NewPromptBuilder(nil)

	req, err := b.Build("cobré 1000", model.Action{Type: model.ActionTransaction})
	require.NoError(t, err)
	assert.Equal(t, "cobré 1000", req.HumanPrompt)
}

func TestPromptBuilderUnknownTag(t *testing.T) {
	b := NewPromptBuilder(nil)

	_, err := b.Build("x", model.Action{Type: "Payment"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPromptBuilder)
	assert.Contains(t, err.Error(), "Payment")
}
