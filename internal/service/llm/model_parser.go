package llm

import (
	"fmt"
	"strings"
)

// ModelInfo contains parsed provider and model information
type ModelInfo struct {
	Provider string // Provider name: "openrouter", "anthropic", "lorem"
	Model    string // Model identifier for that provider
}

// ParseModel extracts provider information from a model string
//
// Supported formats:
//   - "openrouter/deepseek/deepseek-chat-v3-0324:free" → {Provider: "openrouter", Model: "deepseek/deepseek-chat-v3-0324:free"}
//   - "claude-haiku-4-5" → {Provider: "anthropic", Model: "claude-haiku-4-5"}
//   - "lorem-fast" → {Provider: "lorem", Model: "lorem-fast"}
//
// Rules:
//   - If model starts with a known provider name followed by "/" → split on first "/"
//   - Else if it contains "/" → OpenRouter vendor/model slug
//   - Else → infer provider from model prefix
func ParseModel(modelStr string) (*ModelInfo, error) {
	modelStr = strings.TrimSpace(modelStr)
	if modelStr == "" {
		return nil, fmt.Errorf("model string cannot be empty")
	}

	if strings.Contains(modelStr, "/") {
		parts := strings.SplitN(modelStr, "/", 2)
		provider, model := parts[0], parts[1]

		if provider == "" {
			return nil, fmt.Errorf("provider cannot be empty in model string: %s", modelStr)
		}
		if model == "" {
			return nil, fmt.Errorf("model cannot be empty in model string: %s", modelStr)
		}

		if isKnownProvider(provider) {
			return &ModelInfo{Provider: provider, Model: model}, nil
		}

		// "vendor/model" slugs are OpenRouter's naming scheme
		return &ModelInfo{Provider: ProviderOpenRouter, Model: modelStr}, nil
	}

	provider := inferProvider(modelStr)
	if provider == "" {
		return nil, fmt.Errorf("unable to infer provider from model: %s", modelStr)
	}

	return &ModelInfo{
		Provider: provider,
		Model:    modelStr,
	}, nil
}

// Provider names
const (
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderLorem      = "lorem"
)

func isKnownProvider(name string) bool {
	switch name {
	case ProviderOpenRouter, ProviderAnthropic, ProviderLorem:
		return true
	}
	return false
}

// inferProvider infers the provider from model name prefix
func inferProvider(model string) string {
	modelLower := strings.ToLower(model)

	if strings.HasPrefix(modelLower, "claude-") {
		return ProviderAnthropic
	}

	// Lorem mock provider (offline development)
	if strings.HasPrefix(modelLower, "lorem-") {
		return ProviderLorem
	}

	return ""
}
