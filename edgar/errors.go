package edgar

import "errors"

var (
	// ErrNoFiling indicates that no candidate filing produced an acceptable
	// section for the issuer. It is an expected per-issuer outcome, not a
	// pipeline failure.
	ErrNoFiling = errors.New("no suitable filing found")

	// ErrNoDocuments indicates a filing index with no downloadable documents.
	ErrNoDocuments = errors.New("filing has no documents")
)
