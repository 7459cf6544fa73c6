package pipeline

import "errors"

// Stage errors. The Orchestrator maps every one of them to a user-facing
// message; they never reach the user verbatim.
var (
	// ErrClassification means the model output could not be read as an Action.
	ErrClassification = errors.New("classification failed")
	// ErrPromptBuilder means an action type has no prompt template.
	ErrPromptBuilder = errors.New("no prompt template for action")
	// ErrResponseProcessor means the decoded output matched no expected shape.
	ErrResponseProcessor = errors.New("unexpected response shape")
	// ErrValidation means the result list broke a pipeline invariant.
	ErrValidation = errors.New("invalid processing result")
)
