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


package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/sectorvec/core"
	"github.com/poiesic/sectorvec/edgar"
	"github.com/poiesic/sectorvec/registry"
)

const (
	// DefaultWorkers is the fetch/extract concurrency.
	DefaultWorkers = 8

	// DefaultBatchSize is the number of staged records per writer flush.
	DefaultBatchSize = 64

	// DefaultReportInterval is the progress report cadence in completions.
	DefaultReportInterval = 10
)

// Registry supplies the issuer universe.
type Registry interface {
	LoadOrFetch(ctx context.Context) ([]*core.IssuerRecord, error)
}

// SectionFetcher produces composite section text for one issuer.
type SectionFetcher interface {
	Fetch(ctx context.Context, issuer *core.IssuerRecord) (string, error)
}

// ProfileLookup resolves sector/industry classification for a ticker.
type ProfileLookup interface {
	Lookup(ctx context.Context, ticker string) (*registry.Profile, error)
}

// RecordWriter persists a batch of staged index records.
type RecordWriter interface {
	Write(ctx context.Context, records []*core.IndexRecord) error
}

// Summary reports the outcome of an index build.
type Summary struct {
	Total      int
	Indexed    int
	Skipped    int
	Failed     int
	Elapsed    time.Duration
	AvgPerItem time.Duration
}

// taskResult is the outcome of processing one issuer. Exactly one variant
// is set; a worker never returns nothing.
type taskResult struct {
	issuerID string
	record   *core.IndexRecord // indexed
	skipped  bool              // no usable filing
	err      error             // failed
}

// Builder drives the full index build: issuer registry, concurrent filing
// fetch and extraction, and batched writes. Workers only fetch and stage;
// every write happens on the driver goroutine.
type Builder struct {
	registry       Registry
	fetcher        SectionFetcher
	writer         RecordWriter
	profiles       ProfileLookup
	workers        int
	batchSize      int
	limit          int
	reportInterval int
	progressOut    io.Writer
	logger         *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithWorkers sets the fetch concurrency.
func WithWorkers(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithBatchSize sets the records-per-flush batch size.
func WithBatchSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.batchSize = n
		}
	}
}

// WithLimit caps the number of issuers processed. Zero means all.
func WithLimit(n int) BuilderOption {
	return func(b *Builder) { b.limit = n }
}

// WithProfiles enables best-effort sector/industry enrichment.
func WithProfiles(p ProfileLookup) BuilderOption {
	return func(b *Builder) { b.profiles = p }
}

// WithProgress sets the progress output destination and cadence.
func WithProgress(w io.Writer, reportInterval int) BuilderOption {
	return func(b *Builder) {
		b.progressOut = w
		if reportInterval > 0 {
			b.reportInterval = reportInterval
		}
	}
}

// NewBuilder creates an index build driver.
func NewBuilder(reg Registry, fetcher SectionFetcher, writer RecordWriter, opts ...BuilderOption) (*Builder, error) {
	if reg == nil {
		return nil, ErrRegistryRequired
	}
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if writer == nil {
		return nil, ErrWriterRequired
	}

	b := &Builder{
		registry:       reg,
		fetcher:        fetcher,
		writer:         writer,
		workers:        DefaultWorkers,
		batchSize:      DefaultBatchSize,
		reportInterval: DefaultReportInterval,
		progressOut:    os.Stderr,
		logger:         slog.Default().With("component", "ingest"),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Run executes the build. Per-issuer failures are counted, never fatal; the
// only error paths are registry load, pool setup, context cancellation, and
// a batch write whose upsert and add fallback both failed.
func (b *Builder) Run(ctx context.Context) (*Summary, error) {
	issuers, err := b.registry.LoadOrFetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading issuer registry: %w", err)
	}
	if b.limit > 0 && len(issuers) > b.limit {
		issuers = issuers[:b.limit]
	}

	pool, err := ants.NewPool(b.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	start := time.Now()
	tracker := NewProgressTracker(b.progressOut, len(issuers), b.reportInterval)
	tracker.Start()

	results := make(chan *taskResult, b.workers)

	// Submission runs off the driver goroutine: pool.Submit blocks when all
	// workers are busy, and the driver must keep draining results meanwhile.
	go func() {
		for _, issuer := range issuers {
			issuer := issuer
			if err := pool.Submit(func() {
				results <- b.processIssuer(ctx, issuer)
			}); err != nil {
				results <- &taskResult{issuerID: issuer.ID(), err: err}
			}
		}
	}()

	summary := &Summary{Total: len(issuers)}
	var buffer []*core.IndexRecord
	var writeErr error

	flush := func() {
		if len(buffer) == 0 || writeErr != nil {
			return
		}
		if err := b.writer.Write(ctx, buffer); err != nil {
			writeErr = err
			return
		}
		summary.Indexed += len(buffer)
		buffer = buffer[:0]
	}

	for i := 0; i < len(issuers); i++ {
		res := <-results
		tracker.Increment(1)

		switch {
		case res.err != nil:
			summary.Failed++
			b.logger.Warn("issuer failed", "issuer", res.issuerID, "error", res.err)
		case res.skipped:
			summary.Skipped++
			b.logger.Debug("issuer skipped", "issuer", res.issuerID)
		default:
			buffer = append(buffer, res.record)
			if len(buffer) >= b.batchSize {
				flush()
			}
		}
	}

	flush() // final partial batch
	tracker.Finish()

	summary.Elapsed = time.Since(start)
	if summary.Total > 0 {
		summary.AvgPerItem = summary.Elapsed / time.Duration(summary.Total)
	}

	if writeErr != nil {
		return summary, fmt.Errorf("writing batch: %w", writeErr)
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	b.logger.Info("index build complete",
		"total", summary.Total,
		"indexed", summary.Indexed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"elapsed", summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}

// processIssuer fetches and stages one issuer. It always returns a result;
// panics in extraction code are contained here.
func (b *Builder) processIssuer(ctx context.Context, issuer *core.IssuerRecord) (res *taskResult) {
	res = &taskResult{issuerID: issuer.ID()}
	defer func() {
		if r := recover(); r != nil {
			res.record = nil
			res.skipped = false
			res.err = fmt.Errorf("panic processing %s: %v", issuer.ID(), r)
		}
	}()

	if err := core.ValidateIssuer(issuer); err != nil {
		res.err = err
		return res
	}

	text, err := b.fetcher.Fetch(ctx, issuer)
	if err != nil {
		if errors.Is(err, edgar.ErrNoFiling) {
			res.skipped = true
		} else {
			res.err = err
		}
		return res
	}

	metadata := map[string]string{
		"ticker": issuer.Ticker,
		"cik":    issuer.CIK,
		"title":  issuer.Title,
	}
	if issuer.Exchange != "" {
		metadata["exchange"] = issuer.Exchange
	}

	// Profile lookup is pure enrichment; a miss leaves the fields blank.
	if b.profiles != nil && issuer.Ticker != "" {
		if profile, err := b.profiles.Lookup(ctx, issuer.Ticker); err != nil {
			b.logger.Debug("profile lookup failed", "ticker", issuer.Ticker, "error", err)
		} else {
			metadata["sector"] = profile.Sector
			metadata["industry"] = profile.Industry
		}
	}

	res.record = &core.IndexRecord{
		ID:       issuer.ID(),
		Document: text,
		Metadata: metadata,
	}
	return res
}
