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


package sectorvec

import (
	"log/slog"
	"path/filepath"

	"github.com/poiesic/sectorvec/ai"
	"github.com/poiesic/sectorvec/ai/openai"
	"github.com/poiesic/sectorvec/edgar"
	"github.com/poiesic/sectorvec/indexer"
	"github.com/poiesic/sectorvec/ingest"
	"github.com/poiesic/sectorvec/mcp"
	"github.com/poiesic/sectorvec/registry"
	"github.com/poiesic/sectorvec/search"
	"github.com/poiesic/sectorvec/storage"
	"github.com/poiesic/sectorvec/storage/badger"
)

// Index is the top-level handle over the company vector index: the badger
// backend, the company repository, and the embedding provider. All subsystem
// constructors hang off it so every consumer shares one open backend.
type Index struct {
	backend  *badger.Backend
	repo     storage.CompanyRepository
	provider ai.Provider
	logger   *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*indexOptions)

type indexOptions struct {
	aiConfig *ai.Config
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) IndexOption {
	return func(o *indexOptions) {
		o.aiConfig = cfg
	}
}

func NewIndex(filePath string, opts ...IndexOption) (*Index, error) {
	// Apply options
	options := &indexOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, false)
	if err != nil {
		return nil, err
	}

	// Create company repository
	repo, err := badger.NewCompanyRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings
	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		repo.Close()
		backend.Close()
		return nil, err
	}

	return &Index{
		backend:  backend,
		repo:     repo,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

func (ix *Index) Close() error {
	// Close AI provider first
	if err := ix.provider.Close(); err != nil {
		ix.logger.Error("error closing AI provider", "err", err)
	}

	// Close repository
	if err := ix.repo.Close(); err != nil {
		ix.logger.Error("error closing company repository", "err", err)
		return err
	}

	// Close backend
	if err := ix.backend.Close(); err != nil {
		ix.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (ix *Index) CompanyRepository() storage.CompanyRepository {
	return ix.repo
}

// NewWriter creates an index writer bound to this Index's repository and
// embedder.
func (ix *Index) NewWriter(opts ...indexer.WriterOption) *indexer.Writer {
	return indexer.NewWriter(ix.repo, ix.provider.Embedder(), opts...)
}

// BuildOption configures the build pipeline assembled by NewBuilder.
type BuildOption func(*buildOptions)

type buildOptions struct {
	fetcherOpts []edgar.FetcherOption
	ingestOpts  []ingest.BuilderOption
}

// WithFetcherOptions forwards options to the EDGAR fetcher, e.g. a custom
// form preference order or acceptance threshold.
func WithFetcherOptions(opts ...edgar.FetcherOption) BuildOption {
	return func(o *buildOptions) {
		o.fetcherOpts = append(o.fetcherOpts, opts...)
	}
}

// WithIngestOptions forwards options to the ingest driver.
func WithIngestOptions(opts ...ingest.BuilderOption) BuildOption {
	return func(o *buildOptions) {
		o.ingestOpts = append(o.ingestOpts, opts...)
	}
}

// NewBuilder wires the full build pipeline: SEC ticker registry, EDGAR
// filing fetcher, and the embedding writer. filingsRoot is the directory
// filings are downloaded to; the ticker cache lives alongside them.
// userAgent identifies the operator to SEC per their fair-access policy.
func (ix *Index) NewBuilder(filingsRoot, userAgent string, opts ...BuildOption) (*ingest.Builder, error) {
	options := &buildOptions{}
	for _, opt := range opts {
		opt(options)
	}

	reg := registry.NewClient(userAgent,
		registry.WithCachePath(filepath.Join(filingsRoot, registry.DefaultCachePath)))
	source := edgar.NewClient(filingsRoot, userAgent)
	fetcher := edgar.NewFetcher(source, options.fetcherOpts...)
	writer := ix.NewWriter()
	return ingest.NewBuilder(reg, fetcher, writer, options.ingestOpts...)
}

func (ix *Index) NewSearcher(opts ...search.SearcherOption) *search.Searcher {
	return search.NewSearcher(ix.repo, ix.provider.Embedder(), opts...)
}

// NewMCPServer creates an MCP server over this Index. The Index must stay
// open for the server's lifetime.
func (ix *Index) NewMCPServer() *mcp.Server {
	return mcp.NewServer(ix.repo, ix.NewSearcher())
}
