package handler

import (
	"log/slog"
	"net/http"

	"parley/internal/capabilities"
	"parley/internal/config"
	"parley/internal/httputil"
)

// ModelsHandler serves the model catalog
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// ModelsResponse is the catalog plus the model turns are sent to
type ModelsResponse struct {
	DefaultModel string             `json:"default_model"`
	Providers    []ProviderResponse `json:"providers"`
}

// ProviderResponse represents a provider with its models
type ProviderResponse struct {
	ID string `json:"id"`
	// Available is false when the provider's API key is not configured
	Available bool                 `json:"available"`
	Models    []capabilities.Model `json:"models"`
}

// ListModels returns every catalog provider with availability
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	catalogs := h.registry.Providers()

	providers := make([]ProviderResponse, 0, len(catalogs))
	for _, c := range catalogs {
		providers = append(providers, ProviderResponse{
			ID:        c.Provider,
			Available: h.available(c.Provider),
			Models:    c.Models,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, ModelsResponse{
		DefaultModel: h.config.DefaultModel,
		Providers:    providers,
	})
}

func (h *ModelsHandler) available(provider string) bool {
	switch provider {
	case "openrouter":
		return h.config.OpenRouterAPIKey != ""
	case "anthropic":
		return h.config.AnthropicAPIKey != ""
	default:
		return true
	}
}
