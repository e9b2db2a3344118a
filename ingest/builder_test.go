package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sectorvec/core"
	"github.com/poiesic/sectorvec/edgar"
	"github.com/poiesic/sectorvec/registry"
)

type fakeRegistry struct {
	issuers []*core.IssuerRecord
	err     error
}

func (f *fakeRegistry) LoadOrFetch(ctx context.Context) ([]*core.IssuerRecord, error) {
	return f.issuers, f.err
}

// fakeFetcher maps issuer ID to section text or an error.
type fakeFetcher struct {
	texts map[string]string
	errs  map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, issuer *core.IssuerRecord) (string, error) {
	if err, ok := f.errs[issuer.ID()]; ok {
		return "", err
	}
	if text, ok := f.texts[issuer.ID()]; ok {
		return text, nil
	}
	return "", edgar.ErrNoFiling
}

// recordingWriter captures every Write invocation.
type recordingWriter struct {
	mu      sync.Mutex
	batches [][]*core.IndexRecord
	err     error
}

func (w *recordingWriter) Write(ctx context.Context, records []*core.IndexRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	batch := make([]*core.IndexRecord, len(records))
	copy(batch, records)
	w.batches = append(w.batches, batch)
	return nil
}

func (w *recordingWriter) batchSizes() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	sizes := make([]int, len(w.batches))
	for i, b := range w.batches {
		sizes[i] = len(b)
	}
	return sizes
}

type fakeProfiles struct {
	profiles map[string]*registry.Profile
}

func (f *fakeProfiles) Lookup(ctx context.Context, ticker string) (*registry.Profile, error) {
	if p, ok := f.profiles[ticker]; ok {
		return p, nil
	}
	return nil, errors.New("not found")
}

func issuers(n int) []*core.IssuerRecord {
	out := make([]*core.IssuerRecord, n)
	for i := range out {
		out[i] = &core.IssuerRecord{
			Ticker: fmt.Sprintf("TK%03d", i),
			CIK:    fmt.Sprintf("%010d", i+1),
			Title:  fmt.Sprintf("Company %d", i),
		}
	}
	return out
}

func sectionFor(all []*core.IssuerRecord) map[string]string {
	texts := make(map[string]string, len(all))
	for _, iss := range all {
		texts[iss.ID()] = "=== Business Section ===\n" + strings.Repeat("business text ", 20)
	}
	return texts
}

func TestRunBatching(t *testing.T) {
	all := issuers(70)
	writer := &recordingWriter{}
	b, err := NewBuilder(
		&fakeRegistry{issuers: all},
		&fakeFetcher{texts: sectionFor(all)},
		writer,
		WithWorkers(8),
		WithBatchSize(64),
		WithProgress(io.Discard, 100),
	)
	require.NoError(t, err)

	summary, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{64, 6}, writer.batchSizes(), "one full batch plus the partial remainder")
	assert.Equal(t, 70, summary.Total)
	assert.Equal(t, 70, summary.Indexed)
	assert.Zero(t, summary.Skipped)
	assert.Zero(t, summary.Failed)
	assert.Positive(t, summary.Elapsed)
}

func TestRunSkipsIssuersWithoutFilings(t *testing.T) {
	all := issuers(5)
	texts := sectionFor(all)
	delete(texts, "TK002") // fetcher falls back to ErrNoFiling

	writer := &recordingWriter{}
	b, err := NewBuilder(
		&fakeRegistry{issuers: all},
		&fakeFetcher{texts: texts},
		writer,
		WithBatchSize(10),
		WithProgress(io.Discard, 100),
	)
	require.NoError(t, err)

	summary, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Indexed)
	assert.Equal(t, 1, summary.Skipped)

	for _, batch := range writer.batches {
		for _, r := range batch {
			assert.NotEqual(t, "TK002", r.ID, "skipped issuer never reaches the writer")
		}
	}
}

func TestRunCountsFailures(t *testing.T) {
	all := issuers(3)
	texts := sectionFor(all)
	delete(texts, "TK001")

	b, err := NewBuilder(
		&fakeRegistry{issuers: all},
		&fakeFetcher{
			texts: texts,
			errs:  map[string]error{"TK001": errors.New("edgar timeout")},
		},
		&recordingWriter{},
		WithProgress(io.Discard, 100),
	)
	require.NoError(t, err)

	summary, err := b.Run(context.Background())
	require.NoError(t, err, "per-issuer failures never abort the build")
	assert.Equal(t, 2, summary.Indexed)
	assert.Equal(t, 1, summary.Failed)
}

func TestRunAttachesProfileMetadata(t *testing.T) {
	all := issuers(2)
	writer := &recordingWriter{}
	b, err := NewBuilder(
		&fakeRegistry{issuers: all},
		&fakeFetcher{texts: sectionFor(all)},
		writer,
		WithProfiles(&fakeProfiles{profiles: map[string]*registry.Profile{
			"TK000": {Sector: "Technology", Industry: "Software"},
		}}),
		WithProgress(io.Discard, 100),
	)
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.NoError(t, err)

	byID := map[string]*core.IndexRecord{}
	for _, batch := range writer.batches {
		for _, r := range batch {
			byID[r.ID] = r
		}
	}
	require.Len(t, byID, 2)
	assert.Equal(t, "Technology", byID["TK000"].Metadata["sector"])
	assert.Equal(t, "Software", byID["TK000"].Metadata["industry"])
	// Lookup failure leaves the fields absent, not the issuer failed.
	assert.NotContains(t, byID["TK001"].Metadata, "sector")
}

func TestRunRegistryError(t *testing.T) {
	b, err := NewBuilder(
		&fakeRegistry{err: errors.New("sec.gov unreachable")},
		&fakeFetcher{},
		&recordingWriter{},
	)
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.Error(t, err)
}

func TestRunWriteErrorPropagates(t *testing.T) {
	all := issuers(4)
	b, err := NewBuilder(
		&fakeRegistry{issuers: all},
		&fakeFetcher{texts: sectionFor(all)},
		&recordingWriter{err: errors.New("upsert and add both failed")},
		WithBatchSize(2),
		WithProgress(io.Discard, 100),
	)
	require.NoError(t, err)

	_, err = b.Run(context.Background())
	require.Error(t, err)
}

func TestRunLimit(t *testing.T) {
	all := issuers(10)
	writer := &recordingWriter{}
	b, err := NewBuilder(
		&fakeRegistry{issuers: all},
		&fakeFetcher{texts: sectionFor(all)},
		writer,
		WithLimit(3),
		WithProgress(io.Discard, 100),
	)
	require.NoError(t, err)

	summary, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 3, summary.Indexed)
}

func TestNewBuilderValidation(t *testing.T) {
	_, err := NewBuilder(nil, &fakeFetcher{}, &recordingWriter{})
	assert.ErrorIs(t, err, ErrRegistryRequired)

	_, err = NewBuilder(&fakeRegistry{}, nil, &recordingWriter{})
	assert.ErrorIs(t, err, ErrFetcherRequired)

	_, err = NewBuilder(&fakeRegistry{}, &fakeFetcher{}, nil)
	assert.ErrorIs(t, err, ErrWriterRequired)
}
