package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/plata/internal/common"
	"github.com/Veraticus/plata/internal/llm"
	"github.com/Veraticus/plata/internal/service"
	"github.com/spf13/viper"
)

// LLMConfig describes the provider pool and the fallback provider.
type LLMConfig struct {
	// Primary is the template for every pooled client; APIKey is taken from Keys.
	Primary llm.ProviderConfig
	Keys    []string
	// Fallback is nil when no fallback provider is configured.
	Fallback *llm.ProviderConfig
	Retry    service.RetryOptions
	Timeout  time.Duration
}

// LoadLLMConfig reads the llm.* keys. Keys may come from
// llm.primary.api_keys (a list or a comma separated string) or, failing that,
// from GEMINI_API_KEYS / GEMINI_API_KEY.
func LoadLLMConfig(v *viper.Viper) (*LLMConfig, error) {
	primary := llm.ProviderConfig{
		Provider:    firstNonEmpty(v.GetString("llm.primary.provider"), "gemini"),
		Model:       v.GetString("llm.primary.model"),
		BaseURL:     v.GetString("llm.primary.base_url"),
		Temperature: v.GetFloat64("llm.temperature"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
		RateLimit:   v.GetInt("llm.primary.rate_limit"),
	}

	keys := splitList(v.GetStringSlice("llm.primary.api_keys"))
	if len(keys) == 0 {
		keys = splitList([]string{firstNonEmpty(os.Getenv("GEMINI_API_KEYS"), os.Getenv("GEMINI_API_KEY"))})
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no API keys for the %s provider pool", common.ErrMissingConfig, primary.Provider)
	}

	cfg := &LLMConfig{
		Primary: primary,
		Keys:    keys,
		Retry: service.RetryOptions{
			MaxAttempts:  v.GetInt("llm.max_retries"),
			InitialDelay: v.GetDuration("llm.retry_delay"),
			MaxDelay:     v.GetDuration("llm.max_retry_delay"),
			Multiplier:   2.0,
		},
		Timeout: v.GetDuration("llm.timeout"),
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 3
	}
	if cfg.Retry.InitialDelay <= 0 {
		cfg.Retry.InitialDelay = 500 * time.Millisecond
	}
	if cfg.Retry.MaxDelay <= 0 {
		cfg.Retry.MaxDelay = 5 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	fallback, err := loadFallback(v, primary)
	if err != nil {
		return nil, err
	}
	cfg.Fallback = fallback

	return cfg, nil
}

func loadFallback(v *viper.Viper, primary llm.ProviderConfig) (*llm.ProviderConfig, error) {
	provider := strings.ToLower(v.GetString("llm.fallback.provider"))
	switch provider {
	case "", "none":
		return nil, nil
	case "anthropic", "claude":
		provider = "anthropic"
	case "openai", "gemini", "google":
	default:
		return nil, fmt.Errorf("unsupported fallback provider: %s", provider)
	}

	key := v.GetString("llm.fallback.api_key")
	if key == "" {
		key = os.Getenv(strings.ToUpper(provider) + "_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("%w: no API key for the %s fallback provider", common.ErrMissingConfig, provider)
	}

	return &llm.ProviderConfig{
		Provider:    provider,
		APIKey:      key,
		Model:       v.GetString("llm.fallback.model"),
		BaseURL:     v.GetString("llm.fallback.base_url"),
		Temperature: primary.Temperature,
		MaxTokens:   primary.MaxTokens,
		RateLimit:   v.GetInt("llm.fallback.rate_limit"),
		Label:       provider + "-fallback",
	}, nil
}

// LoadTranscriptionKey picks the key used for audio transcription: an
// explicit transcribe.api_key, or the first key of the primary pool.
func LoadTranscriptionKey(v *viper.Viper, llmCfg *LLMConfig) string {
	if key := v.GetString("transcribe.api_key"); key != "" {
		return key
	}
	if llmCfg != nil && len(llmCfg.Keys) > 0 {
		return llmCfg.Keys[0]
	}
	return ""
}
