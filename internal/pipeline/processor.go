package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/plata/internal/llm"
	"github.com/Veraticus/plata/internal/model"
)

// ResponseProcessor calls the gateway and normalizes its output into
// processing results.
type ResponseProcessor struct {
	gen    Generator
	logger *slog.Logger
}

// NewResponseProcessor creates a processor backed by gen.
func NewResponseProcessor(gen Generator, logger *slog.Logger) *ResponseProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResponseProcessor{gen: gen, logger: logger}
}

// Process sends req and fans the output out into results. A financial list
// yields one result per entry in model order; zero-amount entries are dropped
// (transfers excepted) and a malformed entry becomes an error result of its
// own. Gateway errors are returned unchanged.
func (p *ResponseProcessor) Process(ctx context.Context, req llm.Request) ([]model.ProcessingResult, error) {
	out, err := p.gen.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	if out == nil || out.Shape() != req.Shape {
		return nil, fmt.Errorf("%w: requested %s, got %T", ErrResponseProcessor, req.Shape, out)
	}

	switch v := out.(type) {
	case llm.FinancialOutput:
		results := make([]model.ProcessingResult, 0, len(v.Entries))
		for i, entry := range v.Entries {
			if entry.Err != nil {
				p.logger.Warn("Dropping malformed financial entry", "index", i, "error", entry.Err)
				results = append(results, model.NewErrorResult(msgEntryError))
				continue
			}
			if model.Negligible(entry.Action) {
				p.logger.Debug("Dropping zero-amount action", "index", i, "type", entry.Action.Type())
				continue
			}
			results = append(results, model.NewDataResult(entry.Action))
		}
		return results, nil
	case llm.TextOutput:
		return []model.ProcessingResult{model.NewTextResult(v.Text)}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrResponseProcessor, out)
	}
}
