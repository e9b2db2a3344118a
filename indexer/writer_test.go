package indexer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sectorvec/ai/mock"
	"github.com/poiesic/sectorvec/core"
	"github.com/poiesic/sectorvec/storage"
	"github.com/poiesic/sectorvec/storage/badger"
)

func newTestWriter(t *testing.T, opts ...WriterOption) (*Writer, storage.CompanyRepository, *mock.MockEmbedder) {
	t.Helper()
	repo, backend, err := badger.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close(); backend.Close() })

	embedder := mock.NewMockEmbedder()
	embedder.Dimensions = 8
	return NewWriter(repo, embedder, opts...), repo, embedder
}

func TestWriteShortRecord(t *testing.T) {
	w, repo, embedder := newTestWriter(t)
	ctx := context.Background()

	err := w.Write(ctx, []*core.IndexRecord{{
		ID:       "AAPL",
		Document: "Apple designs consumer electronics.",
		Metadata: map[string]string{"sector": "Technology"},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.CallCount(), "one embed call per batch")

	got, err := repo.Get(ctx, "AAPL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Technology", got[0].Metadata["sector"])
	assert.NotZero(t, got[0].Fingerprint)
	assert.NotContains(t, got[0].Metadata, "degraded")

	// Stored vector is unit length.
	var sum float64
	for _, x := range got[0].Vector {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestWriteChunksLongDocument(t *testing.T) {
	w, repo, _ := newTestWriter(t, WithMaxTextLength(100), WithChunkOverlap(10))
	ctx := context.Background()

	doc := strings.Repeat("The company makes widgets. ", 20) // ~540 chars
	err := w.Write(ctx, []*core.IndexRecord{{
		ID:       "WDGT",
		Document: doc,
		Metadata: map[string]string{"form": "10-K"},
	}})
	require.NoError(t, err)

	// The base ID is never stored for a chunked document.
	base, err := repo.Get(ctx, "WDGT")
	require.NoError(t, err)
	assert.Empty(t, base)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Greater(t, len(all), 1)

	for _, e := range all {
		assert.True(t, core.IsChunkID(e.ID), "entry %s should be a chunk", e.ID)
		assert.Equal(t, "WDGT", core.BaseID(e.ID))
		assert.Equal(t, "10-K", e.Metadata["form"])
		assert.Contains(t, e.Metadata, "chunk_index")
		assert.Contains(t, e.Metadata, "total_chunks")
	}
}

func TestWriteFlagsDegradedEmbeddings(t *testing.T) {
	w, repo, embedder := newTestWriter(t)
	ctx := context.Background()

	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		out := make([][]float32, len(texts))
		for i := range out {
			out[i] = make([]float32, 8) // zero vectors: embedding exhausted
		}
		return out, nil
	}

	err := w.Write(ctx, []*core.IndexRecord{{ID: "FAIL", Document: "doc"}})
	require.NoError(t, err, "degraded embeddings are not a write error")

	got, err := repo.Get(ctx, "FAIL")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "true", got[0].Metadata["degraded"])
}

func TestWriteSkipsInvalidRecords(t *testing.T) {
	w, repo, _ := newTestWriter(t)
	ctx := context.Background()

	err := w.Write(ctx, []*core.IndexRecord{
		{ID: "", Document: "no id"},
		{ID: "OK", Document: "valid doc"},
		{ID: "EMPTY", Document: ""},
	})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "OK", all[0].ID)
}

func TestWriteEmptyBatch(t *testing.T) {
	w, _, embedder := newTestWriter(t)
	require.NoError(t, w.Write(context.Background(), nil))
	assert.Zero(t, embedder.CallCount())
}

func TestWriteIdempotentRerun(t *testing.T) {
	w, repo, _ := newTestWriter(t)
	ctx := context.Background()

	records := []*core.IndexRecord{{ID: "AAPL", Document: "same content"}}
	require.NoError(t, w.Write(ctx, records))

	first, err := repo.Get(ctx, "AAPL")
	require.NoError(t, err)

	require.NoError(t, w.Write(ctx, records))
	second, err := repo.Get(ctx, "AAPL")
	require.NoError(t, err)

	assert.True(t, first[0].UpdatedAt.Equal(second[0].UpdatedAt), "unchanged content is not rewritten")
}
