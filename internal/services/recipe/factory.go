package recipe

import (
	"net/http"
	"strings"

	"github.com/socialchef/creativechef/internal/config"
)

// NewProvider builds the configured primary provider, wrapped in a
// FallbackProvider when generation.fallback_enabled is set. Unknown provider
// names fall back to Gemini.
func NewProvider(cfg *config.Config, client *http.Client) Provider {
	gen := cfg.Generation
	primary := newNamedProvider(gen.Provider, ProviderConfig{
		APIKey: cfg.APIKey(gen.Provider),
		Model:  gen.Model,
		Client: client,
	})

	if !gen.FallbackEnabled {
		return primary
	}

	secondary := newNamedProvider(gen.FallbackProvider, ProviderConfig{
		APIKey: cfg.APIKey(gen.FallbackProvider),
		Model:  gen.FallbackModel,
		Client: client,
	})
	return NewFallbackProvider(primary, secondary)
}

func newNamedProvider(name string, pc ProviderConfig) Provider {
	switch ProviderType(strings.ToLower(name)) {
	case ProviderGroq:
		return NewGroqProvider(pc)
	case ProviderOpenAI:
		return NewOpenAIProvider(pc)
	case ProviderCerebras:
		return NewCerebrasProvider(pc)
	default:
		return NewGeminiProvider(pc)
	}
}
