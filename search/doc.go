// Package search provides semantic queries and inspection over the indexed
// company collection, plus the price categorization used by the tool layer.
package search
