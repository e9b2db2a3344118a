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


package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/sectorvec/ai"
	"github.com/poiesic/sectorvec/core"
	"github.com/poiesic/sectorvec/storage"
)

// chunkBoundary separates reassembled chunk texts in Get output.
const chunkBoundary = "\n\n[... CHUNK BOUNDARY ...]\n\n"

// Result is one ranked company hit. Chunk hits are collapsed to their base
// ID before ranking, keeping the best chunk score.
type Result struct {
	ID       string
	Score    float32
	Title    string
	Sector   string
	Industry string
	Metadata map[string]string
}

// Document is a stored company document, reassembled from chunks when the
// original was split.
type Document struct {
	ID       string
	Text     string
	Chunks   int
	Metadata map[string]string
}

// Searcher answers semantic queries over the company collection.
type Searcher struct {
	repo          storage.CompanyRepository
	embedder      ai.Embedder
	minSimilarity float32
	logger        *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithMinSimilarity sets the similarity floor for hits (default 0).
func WithMinSimilarity(min float32) SearcherOption {
	return func(s *Searcher) { s.minSimilarity = min }
}

// NewSearcher creates a Searcher over the given repository and embedder.
func NewSearcher(repo storage.CompanyRepository, embedder ai.Embedder, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		repo:     repo,
		embedder: embedder,
		logger:   slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search returns up to topK companies ranked by similarity to the query.
// Degraded entries (zero-vector placeholders) never appear in results.
func (s *Searcher) Search(ctx context.Context, query string, topK int) ([]*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if topK <= 0 {
		topK = 5
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	if isZeroVector(vector) {
		return nil, ErrQueryEmbedding
	}
	normalizeVector(vector)

	// Over-fetch so chunk collapsing still leaves topK distinct companies.
	fetchLimit := topK * 10
	if fetchLimit < 50 {
		fetchLimit = 50
	}
	hits, err := s.repo.FindSimilar(ctx, vector, s.minSimilarity, fetchLimit)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	best := make(map[string]*Result)
	for _, hit := range hits {
		if hit.Entry.Metadata["degraded"] == "true" {
			continue
		}
		base := core.BaseID(hit.Entry.ID)
		if cur, ok := best[base]; ok && cur.Score >= hit.Score {
			continue
		}
		best[base] = &Result{
			ID:       base,
			Score:    hit.Score,
			Title:    hit.Entry.Metadata["title"],
			Sector:   hit.Entry.Metadata["sector"],
			Industry: hit.Entry.Metadata["industry"],
			Metadata: hit.Entry.Metadata,
		}
	}

	results := make([]*Result, 0, len(best))
	for _, r := range best {
		results = append(results, r)
	}
	slices.SortFunc(results, func(a, b *Result) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	if len(results) > topK {
		results = results[:topK]
	}

	s.logger.Debug("search complete", "query", query, "hits", len(hits), "results", len(results))
	return results, nil
}

// Get retrieves a document by ID. When the ID names a chunked document,
// its chunks are reassembled in order. Returns storage.ErrNotFound when
// neither an exact entry nor chunks exist.
func (s *Searcher) Get(ctx context.Context, id string) (*Document, error) {
	exact, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(exact) == 1 {
		return &Document{
			ID:       id,
			Text:     exact[0].Document,
			Chunks:   1,
			Metadata: exact[0].Metadata,
		}, nil
	}

	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var chunks []*core.CompanyEntry
	for _, e := range all {
		if core.IsChunkID(e.ID) && core.BaseID(e.ID) == id {
			chunks = append(chunks, e)
		}
	}
	if len(chunks) == 0 {
		return nil, storage.ErrNotFound
	}

	// Lexicographic ID order puts chunk10 before chunk2; order numerically.
	sort.Slice(chunks, func(i, j int) bool {
		return chunkIndex(chunks[i]) < chunkIndex(chunks[j])
	})

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Document
	}
	return &Document{
		ID:       id,
		Text:     strings.Join(parts, chunkBoundary),
		Chunks:   len(chunks),
		Metadata: chunks[0].Metadata,
	}, nil
}

// chunkIndex reads the chunk position from metadata, falling back to the
// ID suffix.
func chunkIndex(e *core.CompanyEntry) int {
	if v, ok := e.Metadata["chunk_index"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if idx := strings.LastIndex(e.ID, "_chunk"); idx >= 0 {
		if n, err := strconv.Atoi(e.ID[idx+len("_chunk"):]); err == nil {
			return n
		}
	}
	return 0
}

func isZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

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
