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


package core

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a content hash used to detect unchanged documents on upsert.
type Fingerprint uint64

// FingerprintFromContent generates a deterministic fingerprint from text
// content using BLAKE2b hashing. Identical content produces identical
// fingerprints.
func FingerprintFromContent(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// IssuerRecord identifies a company in the SEC filing registry.
// Records are sourced once from the registry and cached locally; they are
// read-only after creation.
type IssuerRecord struct {
	Ticker   string `json:"ticker"`
	CIK      string `json:"cik_str"`
	Title    string `json:"title"`
	Exchange string `json:"exchange,omitempty"`
}

// ID returns the identifier used for indexing: the ticker, or the CIK when
// the registry entry has no ticker.
func (r *IssuerRecord) ID() string {
	if r.Ticker != "" {
		return r.Ticker
	}
	return r.CIK
}

// IndexRecord is one issuer's composite document staged for indexing.
// Documents longer than the embedding limit are split into chunk entries
// before storage; the base record itself is never persisted in that case.
type IndexRecord struct {
	ID       string
	Document string
	Metadata map[string]string
}

// CompanyEntry is the persisted form of an indexed document (or document
// chunk). The vector is populated by the embedder before storage.
type CompanyEntry struct {
	ID          string
	Document    string
	Vector      []float32
	Metadata    map[string]string
	Fingerprint Fingerprint
	InsertedAt  time.Time
	UpdatedAt   time.Time
}

// SearchResult pairs a stored entry with its relevance score.
type SearchResult struct {
	Entry *CompanyEntry
	Score float32
}

// chunkSep separates a base ID from its chunk index suffix.
const chunkSep = "_chunk"

// ChunkID derives the entry ID for chunk i of a split document.
func ChunkID(baseID string, i int) string {
	return baseID + chunkSep + strconv.Itoa(i)
}

// BaseID strips a chunk suffix from an entry ID, returning the issuer-level
// identifier. IDs without a chunk suffix are returned unchanged.
func BaseID(id string) string {
	if idx := strings.LastIndex(id, chunkSep); idx >= 0 {
		if _, err := strconv.Atoi(id[idx+len(chunkSep):]); err == nil {
			return id[:idx]
		}
	}
	return id
}

// IsChunkID reports whether an entry ID carries a chunk suffix.
func IsChunkID(id string) bool {
	return BaseID(id) != id
}
