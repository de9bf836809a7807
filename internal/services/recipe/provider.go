package recipe

import (
	"context"
	"net/http"
)

// ProviderType names an AI text-generation backend.
type ProviderType string

const (
	ProviderGemini   ProviderType = "gemini"
	ProviderGroq     ProviderType = "groq"
	ProviderOpenAI   ProviderType = "openai"
	ProviderCerebras ProviderType = "cerebras"
)

// Provider turns a prompt into free-form recipe text. The first line of the
// text is expected to be the title.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}

// SourcedProvider is a Provider that delegates to others and reports which
// one produced the text.
type SourcedProvider interface {
	Provider
	GenerateWithSource(ctx context.Context, prompt string) (text, source string, err error)
}

// generateWithSource calls p and names the provider that answered.
func generateWithSource(ctx context.Context, p Provider, prompt string) (string, string, error) {
	if sp, ok := p.(SourcedProvider); ok {
		return sp.GenerateWithSource(ctx, prompt)
	}
	text, err := p.Generate(ctx, prompt)
	return text, p.Name(), err
}

// ProviderConfig carries what every HTTP-backed provider needs. An empty
// BaseURL or Model selects the provider's default.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

func (c ProviderConfig) client() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}
