package ingest

import "errors"

var (
	// ErrRegistryRequired indicates the builder was created without an issuer registry.
	ErrRegistryRequired = errors.New("issuer registry is required")

	// ErrFetcherRequired indicates the builder was created without a section fetcher.
	ErrFetcherRequired = errors.New("section fetcher is required")

	// ErrWriterRequired indicates the builder was created without a record writer.
	ErrWriterRequired = errors.New("record writer is required")
)
