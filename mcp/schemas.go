package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// searchCompaniesTool returns the tool definition for search_companies
func searchCompaniesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "search_companies",
		Description: "Semantic search over indexed SEC filing sections; returns ranked companies",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language query, e.g. 'artificial intelligence chips'",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of companies to return (1-50)",
					"default":     5,
					"minimum":     1,
					"maximum":     50,
				},
			},
			Required: []string{"query"},
		},
	}
}

// getCompanyTool returns the tool definition for get_company
func getCompanyTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_company",
		Description: "Fetch the stored filing document for a company by ticker or entry ID; chunked documents are reassembled",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Ticker or entry ID (e.g. 'NVDA' or 'NVDA_chunk0')",
				},
			},
			Required: []string{"id"},
		},
	}
}

// indexStatsTool returns the tool definition for index_stats
func indexStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_stats",
		Description: "Report collection statistics: total entries, unique companies, chunked entries",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// categorizePriceTool returns the tool definition for categorize_price
func categorizePriceTool() mcp.Tool {
	return mcp.Tool{
		Name:        "categorize_price",
		Description: "Bucket a share price: high (> $100), medium ($10-$100), low (< $10)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"price": map[string]interface{}{
					"type":        "number",
					"description": "Share price in USD",
					"minimum":     0,
				},
			},
			Required: []string{"price"},
		},
	}
}
