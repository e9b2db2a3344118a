package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/poiesic/sectorvec/search"
	"github.com/poiesic/sectorvec/storage"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeNotFound      = -32001 // No entry for the given ID
	ErrorCodeEmptyQuery    = -32002 // Query parameter is empty
)

// handleSearchCompanies handles the search_companies tool invocation
func (s *Server) handleSearchCompanies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", 5)
	if limit < 1 || limit > 50 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 50", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	results, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) {
			return nil, newMCPError(ErrorCodeEmptyQuery, "query is empty", nil)
		}
		return nil, newMCPError(ErrorCodeInternalError, "search failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	hits := make([]map[string]interface{}, len(results))
	for i, r := range results {
		hits[i] = map[string]interface{}{
			"rank":       i + 1,
			"id":         r.ID,
			"similarity": r.Score,
			"title":      r.Title,
			"sector":     r.Sector,
			"industry":   r.Industry,
		}
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"query":   query,
		"results": hits,
	})), nil
}

// handleGetCompany handles the get_company tool invocation
func (s *Server) handleGetCompany(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, ok := args["id"].(string)
	if !ok || id == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "id parameter is required", map[string]interface{}{
			"param":  "id",
			"reason": "missing or empty",
		})
	}

	doc, err := s.searcher.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newMCPError(ErrorCodeNotFound, "no document for id", map[string]interface{}{
				"id": id,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"id":       doc.ID,
		"chunks":   doc.Chunks,
		"chars":    len(doc.Text),
		"metadata": doc.Metadata,
		"text":     doc.Text,
	})), nil
}

// handleIndexStats handles the index_stats tool invocation
func (s *Server) handleIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read stats", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"total_entries":    stats.TotalEntries,
		"unique_companies": stats.UniqueCompanies,
		"chunked_entries":  stats.ChunkedEntries,
		"single_documents": stats.TotalEntries - stats.ChunkedEntries,
	})), nil
}

// handleCategorizePrice handles the categorize_price tool invocation
func (s *Server) handleCategorizePrice(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	price, ok := args["price"].(float64)
	if !ok || price < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "price must be a non-negative number", map[string]interface{}{
			"param": "price",
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"price":    price,
		"category": string(search.Categorize(price)),
	})), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}
