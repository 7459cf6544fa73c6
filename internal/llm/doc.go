// Package llm provides access to remote language models for structured output.
// A Gateway rotates requests across a pool of Gemini clients, one per API key,
// and falls back to a secondary provider (Anthropic or OpenAI) when the pool
// fails. Every provider answers in JSON that the shared decoder turns into a
// tagged Output.
package llm
