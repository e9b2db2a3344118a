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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/sectorvec"
	"github.com/poiesic/sectorvec/ai"
	"github.com/poiesic/sectorvec/edgar"
	"github.com/poiesic/sectorvec/ingest"
	"github.com/poiesic/sectorvec/registry"
	"github.com/poiesic/sectorvec/search"
	"github.com/poiesic/sectorvec/storage/badger"
)

func main() {
	// Best effort; environment variables win over .env entries.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "sectorvec",
		Usage: "Semantic index over SEC filing business sections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "Build the index: fetch tickers, download filings, embed and store",
				Action: buildCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "filings-root",
						Usage: "Directory for downloaded filings and the ticker cache",
						Value: "filings",
					},
					&cli.StringFlag{
						Name:     "user-agent",
						Usage:    "SEC fair-access User-Agent, e.g. 'Acme Corp admin@acme.com'",
						EnvVars:  []string{"SEC_USER_AGENT"},
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent filing fetch workers",
						Value: ingest.DefaultWorkers,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records per write batch",
						Value: ingest.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Process only the first N issuers (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "profiles",
						Usage: "Enrich records with sector/industry lookups",
					},
					&cli.StringSliceFlag{
						Name:  "forms",
						Usage: "Filing form preference order",
						Value: cli.NewStringSlice(edgar.DefaultForms...),
					},
					&cli.IntFlag{
						Name:  "min-section-length",
						Usage: "Minimum extracted section length to accept a filing",
						Value: edgar.MinSectionLength,
					},
				),
			},
			{
				Name:      "search",
				Usage:     "Search indexed companies by natural-language query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Similarity floor for hits (0-1)",
					},
				),
			},
			{
				Name:      "get",
				Usage:     "Print the stored document for a company ID",
				ArgsUsage: "<id>",
				Action:    getCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Print index statistics",
				Action: statsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
			{
				Name:   "mcp-serve",
				Usage:  "Serve the index to MCP clients over stdio",
				Action: mcpServeCommand,
				Flags: append(aiFlags(),
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// aiFlags are shared by every command that needs the embedding service.
func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "openai-api-key",
			Usage:    "API key for the embedding service",
			EnvVars:  []string{"OPENAI_API_KEY"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"EMBEDDING_MODEL"},
			Value:   "text-embedding-3-small",
		},
		&cli.StringFlag{
			Name:    "embedding-url",
			Usage:   "Override the embedding service base URL",
			EnvVars: []string{"EMBEDDING_URL"},
		},
	}
}

func aiConfigFromFlags(c *cli.Context) (*ai.Config, error) {
	cfg := ai.NewConfig(
		ai.WithAPIKey(c.String("openai-api-key")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithBaseURL(c.String("embedding-url")),
	)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}
	return cfg, nil
}

func openIndex(c *cli.Context) (*sectorvec.Index, error) {
	aiConfig, err := aiConfigFromFlags(c)
	if err != nil {
		return nil, err
	}
	index, err := sectorvec.NewIndex(c.String("db"), sectorvec.WithAIConfig(aiConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	return index, nil
}

func buildCommand(c *cli.Context) error {
	ctx := context.Background()

	index, err := openIndex(c)
	if err != nil {
		return err
	}
	defer index.Close()

	ingestOpts := []ingest.BuilderOption{
		ingest.WithWorkers(c.Int("workers")),
		ingest.WithBatchSize(c.Int("batch-size")),
		ingest.WithLimit(c.Int("limit")),
	}
	if c.Bool("profiles") {
		ingestOpts = append(ingestOpts, ingest.WithProfiles(registry.NewProfileClient()))
	}

	builder, err := index.NewBuilder(c.String("filings-root"), c.String("user-agent"),
		sectorvec.WithIngestOptions(ingestOpts...),
		sectorvec.WithFetcherOptions(
			edgar.WithForms(c.StringSlice("forms")),
			edgar.WithMinSectionLength(c.Int("min-section-length")),
		))
	if err != nil {
		return fmt.Errorf("failed to create builder: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Filings root: %s\n", c.String("filings-root"))
	fmt.Fprintf(os.Stderr, "Workers: %d\n", c.Int("workers"))
	fmt.Fprintln(os.Stderr)

	summary, err := builder.Run(ctx)
	if summary != nil {
		fmt.Fprintf(os.Stderr, "\nTotal: %d  Indexed: %d  Skipped: %d  Failed: %d\n",
			summary.Total, summary.Indexed, summary.Skipped, summary.Failed)
		fmt.Fprintf(os.Stderr, "Elapsed: %s (avg %s/issuer)\n",
			summary.Elapsed.Round(time.Millisecond), summary.AvgPerItem.Round(time.Millisecond))
	}
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("query argument is required")
	}

	index, err := openIndex(c)
	if err != nil {
		return err
	}
	defer index.Close()

	searcher := index.NewSearcher(
		search.WithMinSimilarity(float32(c.Float64("min-similarity"))))
	results, err := searcher.Search(ctx, query, c.Int("limit"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for i, r := range results {
		line := fmt.Sprintf("%2d. %-8s %.4f", i+1, r.ID, r.Score)
		if r.Title != "" {
			line += "  " + r.Title
		}
		if r.Sector != "" {
			line += fmt.Sprintf("  (%s / %s)", r.Sector, r.Industry)
		}
		fmt.Println(line)
	}
	return nil
}

func getCommand(c *cli.Context) error {
	ctx := context.Background()

	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("id argument is required")
	}

	// Document retrieval never embeds, so open the store directly instead of
	// requiring embedding credentials.
	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewCompanyRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	doc, err := search.NewSearcher(repo, nil).Get(ctx, id)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "ID: %s  Chunks: %d  Chars: %d\n", doc.ID, doc.Chunks, len(doc.Text))
	for k, v := range doc.Metadata {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", k, v)
	}
	fmt.Fprintln(os.Stderr)
	fmt.Println(doc.Text)
	return nil
}

func statsCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := badger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer backend.Close()

	repo, err := badger.NewCompanyRepository(backend)
	if err != nil {
		return fmt.Errorf("failed to create repository: %w", err)
	}
	defer repo.Close()

	stats, err := repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Total entries:    %d\n", stats.TotalEntries)
	fmt.Printf("Unique companies: %d\n", stats.UniqueCompanies)
	fmt.Printf("Chunked entries:  %d\n", stats.ChunkedEntries)
	return nil
}

func mcpServeCommand(c *cli.Context) error {
	ctx := context.Background()

	index, err := openIndex(c)
	if err != nil {
		return err
	}
	defer index.Close()

	return index.NewMCPServer().Serve(ctx)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
