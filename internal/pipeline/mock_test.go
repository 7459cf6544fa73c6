package pipeline

import (
	"context"
	"sync"

	"github.com/Veraticus/plata/internal/llm"
)

type generated struct {
	out llm.Output
	err error
}

// fakeGenerator returns queued outputs and records requests.
type fakeGenerator struct {
	queue    []generated
	requests []llm.Request
	mu       sync.Mutex
}

func (g *fakeGenerator) Generate(_ context.Context, req llm.Request) (llm.Output, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append(g.requests, req)
	if len(g.queue) == 0 {
		return nil, nil
	}
	next := g.queue[0]
	g.queue = g.queue[1:]
	return next.out, next.err
}
