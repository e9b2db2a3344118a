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


package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/poiesic/sectorvec/ai"
	"github.com/poiesic/sectorvec/chunk"
	"github.com/poiesic/sectorvec/core"
	"github.com/poiesic/sectorvec/storage"
)

const (
	// DefaultMaxTextLength matches the embedder's input limit; documents
	// longer than this are chunked before embedding.
	DefaultMaxTextLength = 30000

	// DefaultChunkOverlap is the character overlap between adjacent chunks.
	DefaultChunkOverlap = 500
)

// Writer embeds staged index records and persists them as company entries.
// Long documents are split into chunk entries; the base record is never
// stored in that case.
type Writer struct {
	repo          storage.CompanyRepository
	embedder      ai.Embedder
	maxTextLength int
	overlap       int
	logger        *slog.Logger
}

// WriterOption configures a Writer.
type WriterOption func(*Writer)

// WithMaxTextLength overrides the chunking threshold.
func WithMaxTextLength(n int) WriterOption {
	return func(w *Writer) { w.maxTextLength = n }
}

// WithChunkOverlap overrides the chunk overlap.
func WithChunkOverlap(n int) WriterOption {
	return func(w *Writer) { w.overlap = n }
}

// NewWriter creates a Writer over the given repository and embedder.
func NewWriter(repo storage.CompanyRepository, embedder ai.Embedder, opts ...WriterOption) *Writer {
	w := &Writer{
		repo:          repo,
		embedder:      embedder,
		maxTextLength: DefaultMaxTextLength,
		overlap:       DefaultChunkOverlap,
		logger:        slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write stages, embeds, and persists a batch of records. Invalid records are
// skipped with a warning. The only error paths are embedding-call context
// cancellation and a storage write where both upsert and add fail.
func (w *Writer) Write(ctx context.Context, records []*core.IndexRecord) error {
	if len(records) == 0 {
		return nil
	}

	entries := w.stage(records)
	if len(entries) == 0 {
		return nil
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = e.Document
	}

	vectors, err := w.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding batch: %w", err)
	}

	degraded := 0
	for i, e := range entries {
		v := vectors[i]
		if isZeroVector(v) {
			// Keep the entry findable by ID but invisible to search.
			e.Metadata["degraded"] = "true"
			degraded++
		} else {
			normalizeVector(v)
		}
		e.Vector = v
	}
	if degraded > 0 {
		w.logger.Warn("stored entries with degraded embeddings", "count", degraded)
	}

	if _, err := w.repo.Upsert(ctx, entries...); err != nil {
		w.logger.Error("upsert failed, falling back to add", "error", err)
		if _, addErr := w.repo.Add(ctx, entries...); addErr != nil {
			return fmt.Errorf("writing %d entries: upsert: %w; add: %w", len(entries), err, addErr)
		}
	}

	w.logger.Info("indexed entries", "records", len(records), "entries", len(entries))
	return nil
}

// stage expands records into storable entries, chunking oversized documents.
func (w *Writer) stage(records []*core.IndexRecord) []*core.CompanyEntry {
	var entries []*core.CompanyEntry
	for _, r := range records {
		if err := core.ValidateIndexRecord(r); err != nil {
			w.logger.Warn("skipping invalid record", "id", r.ID, "error", err)
			continue
		}

		if len(r.Document) <= w.maxTextLength {
			entries = append(entries, &core.CompanyEntry{
				ID:          r.ID,
				Document:    r.Document,
				Metadata:    copyMetadata(r.Metadata),
				Fingerprint: core.FingerprintFromContent(r.Document),
			})
			continue
		}

		chunks := chunk.Split(r.Document, w.maxTextLength, w.overlap)
		w.logger.Debug("split record", "id", r.ID, "chunks", len(chunks), "chars", len(r.Document))
		for i, c := range chunks {
			meta := copyMetadata(r.Metadata)
			meta["chunk_index"] = strconv.Itoa(i)
			meta["total_chunks"] = strconv.Itoa(len(chunks))
			entries = append(entries, &core.CompanyEntry{
				ID:          core.ChunkID(r.ID, i),
				Document:    c,
				Metadata:    meta,
				Fingerprint: core.FingerprintFromContent(c),
			})
		}
	}
	return entries
}

func copyMetadata(m map[string]string) map[string]string {
	out := make(map[string]string, len(m)+2)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// normalizeVector scales v to unit length in place.
func normalizeVector(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= norm
	}
}
