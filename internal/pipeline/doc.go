// Package pipeline turns a raw chat message into processing results.
//
// The Orchestrator runs four stages in order: the Classifier detects the
// intent, the PromptBuilder selects the prompt pair and output shape, the
// ResponseProcessor calls the LLM gateway and fans the decoded output out
// into results, and the Validator checks the final list. Any stage failure
// collapses into a single localized error result.
package pipeline
