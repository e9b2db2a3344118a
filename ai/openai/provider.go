package openai

import (
	"github.com/poiesic/sectorvec/ai"
)

// Provider implements ai.Provider for OpenAI-compatible services.
type Provider struct {
	embedder *Embedder
}

var _ ai.Provider = (*Provider)(nil)

// NewProvider creates a provider from the given configuration.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	embedder, err := newEmbedder(config)
	if err != nil {
		return nil, err
	}
	return &Provider{embedder: embedder}, nil
}

// Embedder returns the text embedding service.
func (p *Provider) Embedder() ai.Embedder {
	return p.embedder
}

// Close releases resources held by the provider.
// The underlying HTTP client holds no persistent connections to release.
func (p *Provider) Close() error {
	return nil
}
