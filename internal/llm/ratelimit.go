package llm

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Veraticus/plata/internal/common"
)

// rateLimiter is a token bucket refilled continuously from elapsed time.
// A waiter reserves the next token up front, so waiters are served in the
// order they arrive.
type rateLimiter struct {
	lastRefill time.Time
	now        func() time.Time
	tokens     float64
	capacity   float64
	// interval is the time it takes to earn one token.
	interval time.Duration
	mu       sync.Mutex
}

// newRateLimiter creates a new rate limiter with the specified requests per minute.
func newRateLimiter(requestsPerMinute int) *rateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60 // Default to 60 requests per minute
	}

	rl := &rateLimiter{
		now:      time.Now,
		tokens:   float64(requestsPerMinute),
		capacity: float64(requestsPerMinute),
		interval: time.Minute / time.Duration(requestsPerMinute),
	}
	rl.lastRefill = rl.now()
	return rl
}

// wait blocks until a token is available or the context is canceled. When
// the context deadline would pass before the next token, it fails at once
// with a transient common.ErrRateLimit so the caller can fall back.
func (rl *rateLimiter) wait(ctx context.Context) error {
	deadline, hasDeadline := ctx.Deadline()

	delay, ok := rl.reserve(deadline, hasDeadline)
	if !ok {
		return common.Transient(fmt.Errorf("%w: next token in %s", common.ErrRateLimit, delay.Round(time.Millisecond)))
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		rl.release()
		return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// tryAcquire takes a token if one is available now.
func (rl *rateLimiter) tryAcquire() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// reserve takes the next token and reports how long the caller must wait
// for it. Nothing is taken when the wait would end after deadline.
func (rl *rateLimiter) reserve(deadline time.Time, hasDeadline bool) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.refill()
	var delay time.Duration
	if rl.tokens < 1 {
		delay = time.Duration((1 - rl.tokens) * float64(rl.interval))
	}
	if hasDeadline && delay > 0 && now.Add(delay).After(deadline) {
		return delay, false
	}
	rl.tokens--
	return delay, true
}

// release returns a reserved token that was never used.
func (rl *rateLimiter) release() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refill()
	rl.tokens = min(rl.tokens+1, rl.capacity)
}

// refill credits the tokens earned since the last call. Callers hold mu.
func (rl *rateLimiter) refill() time.Time {
	now := rl.now()
	if elapsed := now.Sub(rl.lastRefill); elapsed > 0 {
		rl.tokens = min(rl.tokens+float64(elapsed)/float64(rl.interval), rl.capacity)
		rl.lastRefill = now
	}
	return now
}

// limitedProvider gates a provider behind a per-credential token bucket.
type limitedProvider struct {
	Provider
	limiter *rateLimiter
}

func withRateLimit(p Provider, requestsPerMinute int) Provider {
	return &limitedProvider{Provider: p, limiter: newRateLimiter(requestsPerMinute)}
}

func (p *limitedProvider) Complete(ctx context.Context, req Request) (string, error) {
	if err := p.limiter.wait(ctx); err != nil {
		return "", err
	}
	return p.Provider.Complete(ctx, req)
}

// Close closes the wrapped provider when it holds resources.
func (p *limitedProvider) Close() error {
	if c, ok := p.Provider.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
