package llm

import (
	"context"
	"sync"
	"time"
)

type reply struct {
	err  error
	text string
}

// scriptedProvider replays canned replies in order; the last one repeats.
type scriptedProvider struct {
	name     string
	replies  []reply
	requests []Request
	mu       sync.Mutex
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) Complete(_ context.Context, req Request) (string, error) {
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
	r := p.replies[idx]
	return r.text, r.err
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

type observedCall struct {
	role, provider, outcome string
}

type recordingObserver struct {
	calls     []observedCall
	fallbacks []string
	mu        sync.Mutex
}

func (o *recordingObserver) ObserveCall(role, provider, outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls = append(o.calls, observedCall{role: role, provider: provider, outcome: outcome})
}

func (o *recordingObserver) ObserveFallback(primary string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, primary)
}
