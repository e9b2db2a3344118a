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


package openai

import (
	"context"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/sectorvec/ai"
)

// contextLengthMarker identifies the service error raised when a batch
// exceeds the model's aggregate token limit.
const contextLengthMarker = "maximum context length"

// Embedder implements ai.Embedder over an OpenAI-compatible embeddings API,
// adding batch partitioning, retry with linear backoff, and zero-vector
// placeholders on persistent failure.
type Embedder struct {
	client embeddings.EmbedderClient
	config *ai.Config
	logger *slog.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}

	return newEmbedderWithClient(client, config), nil
}

// newEmbedderWithClient wires an embedder around an existing client.
// Split out so tests can inject a fake service.
func newEmbedderWithClient(client embeddings.EmbedderClient, config *ai.Config) *Embedder {
	return &Embedder{
		client: client,
		config: config,
		logger: slog.Default().With("component", "openai-embedder"),
		sleep:  sleepCtx,
	}
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts generates one vector per input text, in input order.
//
// Inputs are truncated to the configured per-text limit, partitioned into
// fixed-size batches, and each batch is retried up to MaxAttempts times with
// a linearly growing sleep. A context-length rejection additionally halves
// every text in the batch before the next attempt. A batch that fails every
// attempt yields zero vectors for its inputs instead of an error, so the
// result count always equals the input count.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	truncated := make([]string, len(texts))
	for i, text := range texts {
		if len(text) > e.config.MaxTextLength {
			e.logger.Warn("text exceeds embedding limit, truncating",
				"index", i, "length", len(text), "limit", e.config.MaxTextLength)
			text = truncateAtRuneBoundary(text, e.config.MaxTextLength)
		}
		truncated[i] = text
	}

	out := make([][]float32, 0, len(truncated))
	for start := 0; start < len(truncated); start += e.config.BatchSize {
		end := start + e.config.BatchSize
		if end > len(truncated) {
			end = len(truncated)
		}

		vectors, err := e.embedBatch(ctx, truncated[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}

	return out, nil
}

// embedBatch runs the retry loop for one batch. The only error it returns is
// context cancellation; service failure degrades to zero vectors.
func (e *Embedder) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	texts := make([]string, len(batch))
	copy(texts, batch)

	var lastErr error
	for attempt := 1; attempt <= e.config.MaxAttempts; attempt++ {
		vectors, err := e.client.CreateEmbedding(ctx, texts)
		if err == nil {
			if len(vectors) != len(texts) {
				e.logger.Error("embedding count mismatch",
					"expected", len(texts), "received", len(vectors))
				return e.zeroVectors(len(batch)), nil
			}
			return vectors, nil
		}
		lastErr = err

		e.logger.Warn("embedding batch failed",
			"attempt", attempt, "maxAttempts", e.config.MaxAttempts, "err", err)

		if attempt == e.config.MaxAttempts {
			break
		}

		// A token-limit rejection will recur at the same size, so shrink the
		// payload in addition to backing off.
		if strings.Contains(err.Error(), contextLengthMarker) {
			e.logger.Warn("context length exceeded, halving batch texts")
			for i, t := range texts {
				texts[i] = truncateAtRuneBoundary(t, len(t)/2)
			}
		}

		if err := e.sleep(ctx, e.config.RetryBaseDelay*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}

	e.logger.Error("persistent embedding failure, emitting zero vectors",
		"batch", len(batch), "err", lastErr)
	return e.zeroVectors(len(batch)), nil
}

// truncateAtRuneBoundary cuts s to at most n bytes without splitting a rune,
// so truncated payloads stay valid UTF-8.
func truncateAtRuneBoundary(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func (e *Embedder) zeroVectors(n int) [][]float32 {
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, e.config.Dimensions)
	}
	return out
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
