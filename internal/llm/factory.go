package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider creates a provider client from cfg. A positive RateLimit wraps
// the client in a token-bucket limiter.
func NewProvider(ctx context.Context, cfg ProviderConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch strings.ToLower(cfg.Provider) {
	case "gemini", "google":
		p, err = newGeminiProvider(ctx, cfg)
	case "anthropic", "claude":
		p, err = newAnthropicProvider(cfg)
	case "openai":
		p, err = newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RateLimit > 0 {
		p = withRateLimit(p, cfg.RateLimit)
	}
	return p, nil
}

// NewPool creates one provider per API key, labelled name#1..name#N.
func NewPool(ctx context.Context, base ProviderConfig, keys []string) ([]Provider, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("no API keys configured for %s", base.Provider)
	}

	pool := make([]Provider, 0, len(keys))
	for i, key := range keys {
		cfg := base
		cfg.APIKey = key
		cfg.Label = fmt.Sprintf("%s#%d", strings.ToLower(base.Provider), i+1)

		p, err := NewProvider(ctx, cfg)
		if err != nil {
			_ = closeAll(pool)
			return nil, fmt.Errorf("provider %s: %w", cfg.Label, err)
		}
		pool = append(pool, p)
	}
	return pool, nil
}
