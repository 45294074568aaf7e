package llm

import (
	"fmt"
	"log/slog"

	"parley/internal/config"
	llmSvc "parley/internal/domain/services/llm"
)

// SetupProviders builds the provider registry and resolves the configured
// default model to a provider. Fails fast when the model is unparseable or
// its provider has no credentials.
func SetupProviders(cfg *config.Config, logger *slog.Logger) (llmSvc.Provider, string, error) {
	registry := NewProviderRegistry(cfg)

	if cfg.OpenRouterAPIKey != "" {
		logger.Info("provider available", "name", ProviderOpenRouter, "models", "vendor/model")
	} else {
		logger.Warn("OPENROUTER_API_KEY not set - OpenRouter provider not available")
	}
	if cfg.AnthropicAPIKey != "" {
		logger.Info("provider available", "name", ProviderAnthropic, "models", "claude-*")
	}
	logger.Info("provider available", "name", ProviderLorem, "models", "lorem-*")

	provider, model, err := registry.ForModel(cfg.DefaultModel)
	if err != nil {
		return nil, "", fmt.Errorf("default model %q: %w", cfg.DefaultModel, err)
	}

	logger.Info("default model resolved",
		"model", model,
		"provider", provider.Name(),
	)

	return provider, model, nil
}
