// Package indexer turns staged index records into persisted, embedded
// company entries. It owns the chunking policy for oversized documents and
// the upsert-then-add write path.
package indexer
