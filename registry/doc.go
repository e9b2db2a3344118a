// Package registry resolves the universe of issuers to index.
//
// The SEC publishes a registry of every public filer at a fixed URL. Fetching
// it requires a descriptive User-Agent header identifying the operator. The
// registry changes slowly, so it is cached in a local JSON file and refetched
// only when the cache is absent.
//
// Sector and industry classification comes from a separate quote profile
// endpoint and is strictly best-effort enrichment.
package registry
