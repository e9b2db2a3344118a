package search

import "errors"

var (
	// ErrEmptyQuery indicates a search with no query text.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrQueryEmbedding indicates the query could not be embedded, so no
	// meaningful similarity search is possible.
	ErrQueryEmbedding = errors.New("query embedding unavailable")
)
