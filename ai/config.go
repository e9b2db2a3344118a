// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"time"
)

// Config holds configuration for the embedding service.
type Config struct {
	// APIKey authenticates against the embedding service.
	// Required; there is no unauthenticated fallback.
	APIKey string

	// BaseURL overrides the service endpoint, e.g. for an OpenAI-compatible
	// local server. Empty means the provider default.
	BaseURL string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "text-embedding-3-small"
	EmbeddingModel string

	// Dimensions is the width of returned vectors, used for zero-vector
	// placeholders when a batch fails permanently.
	// Default: 1536 (text-embedding-3-small)
	Dimensions int

	// BatchSize is the maximum number of texts sent per service call.
	// Default: 64
	BatchSize int

	// MaxTextLength is the per-text character limit. Longer texts are
	// truncated before sending; chunking upstream should make this a no-op.
	// Default: 30000 (~7500 tokens at ~4 chars/token)
	MaxTextLength int

	// MaxAttempts is the number of tries per batch before giving up.
	// Default: 5
	MaxAttempts int

	// RetryBaseDelay scales the linear backoff: sleep = RetryBaseDelay * attempt.
	// Default: 2s
	RetryBaseDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the service API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets a custom service endpoint.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithBatchSize sets the per-call batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithMaxTextLength sets the per-text character limit.
func WithMaxTextLength(n int) ConfigOption {
	return func(c *Config) {
		c.MaxTextLength = n
	}
}

// DefaultConfig returns a Config with defaults matching the OpenAI
// text-embedding-3-small service. The APIKey is left empty and must be
// provided by the caller.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel: "text-embedding-3-small",
		Dimensions:     1536,
		BatchSize:      64,
		MaxTextLength:  30000,
		MaxAttempts:    5,
		RetryBaseDelay: 2 * time.Second,
	}
}

// NewConfig creates a Config with default values and applies the provided options.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration is valid and complete.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("ai config: APIKey is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.Dimensions <= 0 {
		return errors.New("ai config: Dimensions must be positive")
	}
	if c.BatchSize <= 0 {
		return errors.New("ai config: BatchSize must be positive")
	}
	if c.MaxTextLength <= 0 {
		return errors.New("ai config: MaxTextLength must be positive")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("ai config: MaxAttempts must be positive")
	}
	return nil
}
