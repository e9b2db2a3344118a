package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings.
	// The returned slice always contains exactly one vector per input text,
	// in input order. Inputs whose embedding could not be obtained after the
	// retry policy is exhausted are represented by zero vectors rather than
	// an error, so downstream id/vector counts always line up.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider creates and manages the embedding service, ensuring configuration
// and underlying clients are shared appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
