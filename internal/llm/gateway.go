package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/service"
)

// ErrGateway is returned when both the primary pool and the fallback failed.
var ErrGateway = errors.New("llm gateway failed")

// Provider roles reported to the Observer.
const (
	RolePrimary  = "primary"
	RoleFallback = "fallback"
)

// Call outcomes reported to the Observer.
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeMalformed = "malformed"
)

// Observer receives one event per provider call.
type Observer interface {
	ObserveCall(role, provider, outcome string, elapsed time.Duration)
	ObserveFallback(primary string)
}

type nopObserver struct{}

func (nopObserver) ObserveCall(string, string, string, time.Duration) {}
func (nopObserver) ObserveFallback(string)                           {}

// Gateway sends structured requests to a rotating pool of primary providers
// and falls back to a single secondary provider once per request.
type Gateway struct {
	logger    *slog.Logger
	observer  Observer
	fallback  Provider
	providers []Provider
	retry     service.RetryOptions
	timeout   time.Duration
	next      int
	mu        sync.Mutex
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets the gateway logger.
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = logger }
}

// WithObserver sets the call observer.
func WithObserver(o Observer) GatewayOption {
	return func(g *Gateway) { g.observer = o }
}

// WithRetry sets the retry policy for primary calls.
func WithRetry(opts service.RetryOptions) GatewayOption {
	return func(g *Gateway) { g.retry = opts }
}

// WithTimeout bounds every single provider call.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

// NewGateway builds a gateway over providers. fallback may be nil, in which
// case primary failures are returned directly as ErrGateway.
func NewGateway(providers []Provider, fallback Provider, opts ...GatewayOption) (*Gateway, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: at least one primary provider is required", common.ErrMissingConfig)
	}

	g := &Gateway{
		providers: providers,
		fallback:  fallback,
		logger:    slog.Default(),
		observer:  nopObserver{},
		timeout:   30 * time.Second,
		retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate asks the next primary provider for req, retrying transient
// failures, and falls back exactly once when the primary gives up.
func (g *Gateway) Generate(ctx context.Context, req Request) (Output, error) {
	primary := g.pick()

	var out Output
	primaryErr := common.WithRetry(ctx, func() error {
		var err error
		out, err = g.call(ctx, RolePrimary, primary, req)
		return err
	}, g.retry)
	if primaryErr == nil {
		return out, nil
	}

	g.logger.Warn("Primary provider failed",
		"provider", primary.Name(),
		"shape", req.Shape.String(),
		"error", primaryErr)

	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrGateway, ctx.Err())
	}
	if g.fallback == nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGateway, primary.Name(), primaryErr)
	}

	g.observer.ObserveFallback(primary.Name())

	out, fallbackErr := g.call(ctx, RoleFallback, g.fallback, req)
	if fallbackErr != nil {
		g.logger.Error("Fallback provider failed",
			"provider", g.fallback.Name(),
			"shape", req.Shape.String(),
			"error", fallbackErr)
		return nil, fmt.Errorf("%w: primary %s: %w; fallback %s: %w",
			ErrGateway, primary.Name(), primaryErr, g.fallback.Name(), fallbackErr)
	}
	return out, nil
}

// call runs one provider attempt under the per-call timeout and decodes it.
// Malformed output is permanent: asking the same model again rarely helps.
func (g *Gateway) call(ctx context.Context, role string, p Provider, req Request) (Output, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := p.Complete(callCtx, req)
	if err != nil {
		g.observer.ObserveCall(role, p.Name(), OutcomeError, time.Since(start))
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, common.Transient(err)
		}
		return nil, err
	}

	out, err := Decode(req.Shape, raw, req.Now)
	if err != nil {
		g.observer.ObserveCall(role, p.Name(), OutcomeMalformed, time.Since(start))
		g.logger.Debug("Discarding malformed output", "provider", p.Name(), "raw", raw)
		return nil, common.Permanent(err)
	}

	g.observer.ObserveCall(role, p.Name(), OutcomeSuccess, time.Since(start))
	return out, nil
}

// pick returns the provider under the cursor and advances it.
func (g *Gateway) pick() Provider {
	g.mu.Lock()
	p := g.providers[g.next]
	g.next = (g.next + 1) % len(g.providers)
	g.mu.Unlock()
	return p
}

// Close releases every provider that holds resources.
func (g *Gateway) Close() error {
	all := append([]Provider{}, g.providers...)
	if g.fallback != nil {
		all = append(all, g.fallback)
	}
	return closeAll(all)
}

func closeAll(providers []Provider) error {
	var errs []error
	for _, p := range providers {
		if c, ok := p.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
