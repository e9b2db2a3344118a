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


package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/poiesic/sectorvec/search"
	"github.com/poiesic/sectorvec/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "sectorvec"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies.
type Server struct {
	mcp      *server.MCPServer
	repo     storage.CompanyRepository
	searcher *search.Searcher
	logger   *slog.Logger
}

// NewServer creates an MCP server over an open repository and searcher.
// The caller owns both and closes them after Serve returns.
func NewServer(repo storage.CompanyRepository, searcher *search.Searcher) *Server {
	s := &Server{
		mcp:      server.NewMCPServer(ServerName, ServerVersion),
		repo:     repo,
		searcher: searcher,
		logger:   slog.Default().With("component", "mcp"),
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("serving MCP on stdio", "name", ServerName, "version", ServerVersion)
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchCompaniesTool(), s.handleSearchCompanies)
	s.mcp.AddTool(getCompanyTool(), s.handleGetCompany)
	s.mcp.AddTool(indexStatsTool(), s.handleIndexStats)
	s.mcp.AddTool(categorizePriceTool(), s.handleCategorizePrice)
}
