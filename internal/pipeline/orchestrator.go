package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/plata/internal/model"
)

// Pipeline stages, used in logs and metrics.
const (
	StageClassify = "classify"
	StageBuild    = "build_prompt"
	StageProcess  = "process"
	StageValidate = "validate"
)

// Recorder receives pipeline outcomes.
type Recorder interface {
	RecordAction(action model.ActionType)
	RecordResults(results []model.ProcessingResult)
	RecordFailure(stage string)
}

type nopRecorder struct{}

func (nopRecorder) RecordAction(model.ActionType)          {}
func (nopRecorder) RecordResults([]model.ProcessingResult) {}
func (nopRecorder) RecordFailure(string)                   {}

// Orchestrator is the single entry point of the message pipeline.
type Orchestrator struct {
	classifier *Classifier
	builder    *PromptBuilder
	processor  *ResponseProcessor
	validator  Validator
	logger     *slog.Logger
	recorder   Recorder
	now        func() time.Time
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger shared by every stage.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

// WithClock sets the clock used for relative date resolution.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires the four stages around gen.
func NewOrchestrator(gen Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		logger:   slog.Default(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(o)
	}

	o.classifier = NewClassifier(gen, o.logger)
	o.builder = NewPromptBuilder(o.now)
	o.processor = NewResponseProcessor(gen, o.logger)
	return o
}

// ProcessContent runs classify, build, process and validate. It always
// returns at least one result: a failing stage yields a single localized
// error result and an empty extraction yields a hint to include an amount.
func (o *Orchestrator) ProcessContent(ctx context.Context, content string) []model.ProcessingResult {
	action, err := o.classifier.DetectAction(ctx, content)
	if err != nil {
		return o.fail(StageClassify, err)
	}
	o.recorder.RecordAction(action.Type)

	req, err := o.builder.Build(content, action)
	if err != nil {
		return o.fail(StageBuild, err)
	}

	results, err := o.processor.Process(ctx, req)
	if err != nil {
		return o.fail(StageProcess, err)
	}

	if err := o.validator.Validate(results); err != nil {
		return o.fail(StageValidate, err)
	}

	if len(results) == 0 {
		results = []model.ProcessingResult{model.NewTextResult(msgNothingToRecord)}
	}

	o.recorder.RecordResults(results)
	return results
}

func (o *Orchestrator) fail(stage string, err error) []model.ProcessingResult {
	o.recorder.RecordFailure(stage)

	if errors.Is(err, ErrPromptBuilder) {
		o.logger.Error("Pipeline stage failed", "stage", stage, "error", err)
	} else {
		o.logger.Warn("Pipeline stage failed", "stage", stage, "error", err)
	}

	return []model.ProcessingResult{model.NewErrorResult(apology(err))}
}
