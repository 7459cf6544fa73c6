package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Veraticus/plata/internal/common"
)

// Request is a single structured-output call to a model.
type Request struct {
	SystemPrompt string
	HumanPrompt  string
	Shape        Shape
	// Now is the reference time for dates the model leaves out. Zero means
	// the wall clock at decode time.
	Now time.Time
}

// Provider is a model client bound to one credential.
type Provider interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	// Complete returns the raw model text for req. The text is expected to
	// satisfy req.Shape; decoding is left to the caller.
	Complete(ctx context.Context, req Request) (string, error)
}

// ProviderConfig configures a single provider client.
type ProviderConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	// RateLimit is requests per minute; zero disables limiting.
	RateLimit int
	// Label distinguishes clients sharing a provider, e.g. "gemini#2".
	Label string
}

// statusError is a non-2xx answer from a provider HTTP API.
type statusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.Status, e.Body)
}

// classifyStatus marks rate limits and server errors as retryable.
func classifyStatus(err error, status int) error {
	switch {
	case status == http.StatusTooManyRequests:
		return common.Transient(fmt.Errorf("%w: %w", common.ErrRateLimit, err))
	case status >= http.StatusInternalServerError, status == http.StatusRequestTimeout:
		return common.Transient(err)
	case status >= http.StatusBadRequest:
		return common.Permanent(err)
	default:
		return err
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
