package storage

import (
	"context"

	"github.com/poiesic/sectorvec/core"
)

// CollectionStats summarizes the contents of the vector collection.
type CollectionStats struct {
	// TotalEntries counts every stored entry, chunks included.
	TotalEntries int
	// UniqueCompanies counts distinct base IDs.
	UniqueCompanies int
	// ChunkedEntries counts entries that are chunks of a split document.
	ChunkedEntries int
}

// CompanyRepository provides operations for the persistent vector collection
// of company filing documents. Implementations must be thread-safe and
// support concurrent access.
type CompanyRepository interface {
	// Upsert inserts or replaces entries keyed by ID. An existing entry whose
	// content fingerprint matches the incoming one is left untouched, making
	// repeated index builds idempotent. Timestamps are populated
	// automatically.
	Upsert(ctx context.Context, entries ...*core.CompanyEntry) ([]*core.CompanyEntry, error)

	// Add inserts entries, failing with ErrDuplicateKey if any ID already
	// exists. It is the fallback write path when Upsert fails.
	Add(ctx context.Context, entries ...*core.CompanyEntry) ([]*core.CompanyEntry, error)

	// Get retrieves entries by their IDs.
	// Returns only the entries that exist (no error for missing IDs).
	Get(ctx context.Context, ids ...string) ([]*core.CompanyEntry, error)

	// GetAll retrieves every stored entry, ordered by ID.
	GetAll(ctx context.Context) ([]*core.CompanyEntry, error)

	// Delete removes entries by ID.
	// Returns ErrNotFound if any entry doesn't exist.
	Delete(ctx context.Context, ids ...string) error

	// FindSimilar finds entries similar to the given vector.
	// Returns entries with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first). Stored vectors are assumed
	// normalized, so the score is the cosine similarity.
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Count returns the number of stored entries, chunks included.
	Count(ctx context.Context) (int, error)

	// Stats summarizes the collection contents.
	Stats(ctx context.Context) (*CollectionStats, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
