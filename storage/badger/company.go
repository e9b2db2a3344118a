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


package badger

import (
	"context"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/sectorvec/core"
	"github.com/poiesic/sectorvec/storage"
)

// CompanyRepository implements storage.CompanyRepository for BadgerDB.
type CompanyRepository struct {
	backend *Backend
}

var _ storage.CompanyRepository = (*CompanyRepository)(nil)

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(backend *Backend) (*CompanyRepository, error) {
	return &CompanyRepository{
		backend: backend,
	}, nil
}

// Close releases resources. The backend is owned by the caller.
func (r *CompanyRepository) Close() error {
	return nil
}

// Upsert inserts or replaces entries keyed by ID. An existing entry whose
// fingerprint matches the incoming one is left untouched, so re-running an
// index build over unchanged filings is a no-op per entry.
func (r *CompanyRepository) Upsert(ctx context.Context, entries ...*core.CompanyEntry) ([]*core.CompanyEntry, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, entry := range entries {
			if entry.Fingerprint == 0 {
				entry.Fingerprint = core.FingerprintFromContent(entry.Document)
			}

			key := makeCompanyKey(entry.ID)
			old, err := readCompanyEntry(tx, key)
			if err != nil {
				return err
			}

			if old != nil && old.Fingerprint == entry.Fingerprint {
				// Unchanged content: keep the stored entry as-is.
				*entry = *old
				continue
			}

			if old != nil {
				entry.InsertedAt = old.InsertedAt
			} else {
				entry.InsertedAt = now
			}
			entry.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalCompanyEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Add inserts entries, failing with ErrDuplicateKey if any ID already exists.
func (r *CompanyRepository) Add(ctx context.Context, entries ...*core.CompanyEntry) ([]*core.CompanyEntry, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		now := time.Now().UTC()
		for _, entry := range entries {
			key := makeCompanyKey(entry.ID)
			if _, err := tx.Get(key); err == nil {
				return storage.ErrDuplicateKey
			} else if err != badger.ErrKeyNotFound {
				return err
			}

			if entry.Fingerprint == 0 {
				entry.Fingerprint = core.FingerprintFromContent(entry.Document)
			}
			entry.InsertedAt = now
			entry.UpdatedAt = now

			if err := tx.Set(key, storage.MarshalCompanyEntry(entry)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Get retrieves entries by their IDs. Missing IDs are skipped.
func (r *CompanyRepository) Get(ctx context.Context, ids ...string) ([]*core.CompanyEntry, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result []*core.CompanyEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			entry, err := readCompanyEntry(tx, makeCompanyKey(id))
			if err != nil {
				return err
			}
			if entry != nil {
				result = append(result, entry)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetAll retrieves every stored entry, ordered by ID.
func (r *CompanyRepository) GetAll(ctx context.Context) ([]*core.CompanyEntry, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.CompanyEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(companyRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			var entry *core.CompanyEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalCompanyEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry != nil {
				results = append(results, entry)
			}
		}
		return nil
	}, false)

	return results, err
}

// Delete removes entries by ID. Returns ErrNotFound if any ID is missing.
func (r *CompanyRepository) Delete(ctx context.Context, ids ...string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCompanyKey(id)
			if _, err := tx.Get(key); err != nil {
				if err == badger.ErrKeyNotFound {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds entries similar to the given vector. Stored vectors are
// normalized at write time, so the dot product is the cosine similarity.
func (r *CompanyRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(companyRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.CompanyEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalCompanyEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, entry.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{
					Entry: entry,
					Score: similarity,
				})
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.SearchResult) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Count returns the number of stored entries, chunks included.
func (r *CompanyRepository) Count(ctx context.Context) (int, error) {
	if r.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}

	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(companyRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// Stats summarizes the collection contents.
func (r *CompanyRepository) Stats(ctx context.Context) (*storage.CollectionStats, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	stats := &storage.CollectionStats{}
	companies := make(map[string]struct{})

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(companyRecordPrefix + ":")
		for iter.Seek(prefix); iter.ValidForPrefix(prefix); iter.Next() {
			id := string(iter.Item().Key()[len(prefix):])
			stats.TotalEntries++
			if core.IsChunkID(id) {
				stats.ChunkedEntries++
			}
			companies[core.BaseID(id)] = struct{}{}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	stats.UniqueCompanies = len(companies)
	return stats, nil
}

// readCompanyEntry reads a company entry from the transaction.
// Returns nil without error when the key does not exist.
func readCompanyEntry(tx *badger.Txn, key []byte) (*core.CompanyEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var entry *core.CompanyEntry
	err = item.Value(func(val []byte) error {
		var err error
		entry, err = storage.UnmarshalCompanyEntry(val)
		return err
	})
	return entry, err
}
