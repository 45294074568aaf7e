package llm

import (
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go/option"

	"parley/internal/config"
	llmSvc "parley/internal/domain/services/llm"
	"parley/internal/service/llm/providers/anthropic"
	"parley/internal/service/llm/providers/lorem"
	"parley/internal/service/llm/providers/openrouter"
)

// ProviderRegistry creates providers on first use and caches them.
type ProviderRegistry struct {
	config *config.Config
	cache  map[string]llmSvc.Provider
	mu     sync.RWMutex
}

// NewProviderRegistry creates a new provider registry.
func NewProviderRegistry(cfg *config.Config) *ProviderRegistry {
	return &ProviderRegistry{
		config: cfg,
		cache:  make(map[string]llmSvc.Provider),
	}
}

// GetProvider returns the provider for the given provider name.
//
// Supported providers:
//   - "openrouter" - any vendor/model slug via OpenRouter
//   - "anthropic" - Claude models via Anthropic API
//   - "lorem" - mock provider (no API key required)
func (r *ProviderRegistry) GetProvider(provider string) (llmSvc.Provider, error) {
	if provider == "" {
		return nil, fmt.Errorf("provider cannot be empty")
	}

	// Fast path: check cache with read lock
	r.mu.RLock()
	if cached, exists := r.cache[provider]; exists {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have created the provider while we waited for the lock
	if cached, exists := r.cache[provider]; exists {
		return cached, nil
	}

	created, err := r.create(provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider '%s': %w", provider, err)
	}

	r.cache[provider] = created
	return created, nil
}

// ForModel parses a model string and returns its provider with the
// provider-local model name.
func (r *ProviderRegistry) ForModel(model string) (llmSvc.Provider, string, error) {
	info, err := ParseModel(model)
	if err != nil {
		return nil, "", err
	}
	p, err := r.GetProvider(info.Provider)
	if err != nil {
		return nil, "", err
	}
	return p, info.Model, nil
}

func (r *ProviderRegistry) create(provider string) (llmSvc.Provider, error) {
	switch provider {
	case ProviderOpenRouter:
		if r.config.OpenRouterAPIKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
		}
		return openrouter.NewProvider(openrouter.Options{
			APIKey:  r.config.OpenRouterAPIKey,
			BaseURL: r.config.OpenRouterBaseURL,
			SiteURL: r.config.OpenRouterSiteURL,
			AppName: r.config.OpenRouterAppName,
		})

	case ProviderAnthropic:
		if r.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		var opts []option.RequestOption
		if r.config.AnthropicBaseURL != "" {
			opts = append(opts, option.WithBaseURL(r.config.AnthropicBaseURL))
		}
		return anthropic.NewProvider(r.config.AnthropicAPIKey, opts...)

	case ProviderLorem:
		return lorem.NewProvider(r.config.LoremDelay), nil

	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
