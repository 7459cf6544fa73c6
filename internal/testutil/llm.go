package testutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/plata/internal/llm"
	"github.com/Veraticus/plata/internal/service"
)

// Reply is one canned provider answer.
type Reply struct {
	Err  error
	Text string
}

// ScriptedProvider is an llm.Provider that answers from a queue. Once the
// queue is drained the last reply repeats.
type ScriptedProvider struct {
	ProviderName string
	replies      []Reply
	requests     []llm.Request
	mu           sync.Mutex
}

// NewScriptedProvider creates a provider that returns replies in order.
func NewScriptedProvider(name string, replies ...Reply) *ScriptedProvider {
	return &ScriptedProvider{ProviderName: name, replies: replies}
}

// Name implements llm.Provider.
func (p *ScriptedProvider) Name() string { return p.ProviderName }

// Complete implements llm.Provider.
func (p *ScriptedProvider) Complete(_ context.Context, req llm.Request) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := len(p.requests)
	p.requests = append(p.requests, req)
	if len(p.replies) == 0 {
		return "", nil
	}
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	return p.replies[idx].Text, p.replies[idx].Err
}

// Requests returns a copy of every request received so far.
func (p *ScriptedProvider) Requests() []llm.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.Request(nil), p.requests...)
}

// Calls returns how many requests were received.
func (p *ScriptedProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewGateway builds a gateway over a single primary and an optional fallback
// with millisecond retry delays.
func NewGateway(t *testing.T, primary, fallback llm.Provider) *llm.Gateway {
	t.Helper()

	g, err := llm.NewGateway([]llm.Provider{primary}, fallback,
		llm.WithLogger(DiscardLogger()),
		llm.WithTimeout(time.Second),
		llm.WithRetry(service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			MaxDelay:     2 * time.Millisecond,
			Multiplier:   2,
		}),
	)
	if err != nil {
		t.Fatalf("failed to create gateway: %v", err)
	}
	return g
}
