package capabilities

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Providers in catalog display order
var catalogProviders = []string{"openrouter", "anthropic", "lorem"}

// Registry is the read-only model catalog. Safe for concurrent use once built.
type Registry struct {
	providers []*ProviderCatalog
	byName    map[string]*ProviderCatalog
}

// NewRegistry loads the embedded catalog files
func NewRegistry() (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*ProviderCatalog),
	}

	for _, provider := range catalogProviders {
		if err := r.loadProviderFile(provider); err != nil {
			return nil, fmt.Errorf("failed to load %s catalog: %w", provider, err)
		}
	}

	return r, nil
}

func (r *Registry) loadProviderFile(provider string) error {
	filename := fmt.Sprintf("config/%s.yaml", provider)
	data, err := configFiles.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filename, err)
	}

	var catalog ProviderCatalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	if catalog.Provider != provider {
		return fmt.Errorf("%s declares provider %q", filename, catalog.Provider)
	}

	r.providers = append(r.providers, &catalog)
	r.byName[provider] = &catalog
	return nil
}

// Lookup returns the catalog entry for a provider-local model id
func (r *Registry) Lookup(provider, model string) (*Model, bool) {
	catalog, ok := r.byName[provider]
	if !ok {
		return nil, false
	}
	for i := range catalog.Models {
		if catalog.Models[i].ID == model {
			return &catalog.Models[i], true
		}
	}
	return nil, false
}

// Providers returns every provider catalog in display order
func (r *Registry) Providers() []ProviderCatalog {
	out := make([]ProviderCatalog, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, *p)
	}
	return out
}
