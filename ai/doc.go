// Package ai defines the embedding service abstraction used by the indexing
// pipeline, along with its configuration.
//
// Concrete implementations live in subpackages: openai provides a batching
// embedder over OpenAI-compatible APIs, and mock provides deterministic test
// doubles. Consumers depend only on the interfaces defined here.
package ai
