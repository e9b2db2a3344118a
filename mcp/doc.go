// Package mcp exposes the company index to MCP clients over stdio.
//
// Four tools are registered: search_companies, get_company, index_stats,
// and categorize_price. Handlers validate parameters against the declared
// schemas and return JSON text results.
package mcp
