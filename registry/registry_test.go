package registry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tickersPayload = `{
  "0": {"cik_str": 320193, "ticker": "AAPL", "title": "Apple Inc.", "exchange": "Nasdaq"},
  "1": {"cik_str": 789019, "ticker": "MSFT", "title": "MICROSOFT CORP"},
  "2": {"cik_str": 1067983, "ticker": "", "title": "BERKSHIRE HATHAWAY INC"}
}`

func newTickersServer(t *testing.T, hits *int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(tickersPayload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := newTickersServer(t, nil)
	c := NewClient("sectorvec test (dev@example.com)", WithTickersURL(srv.URL))

	records, err := c.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	byTicker := map[string]string{}
	for _, r := range records {
		byTicker[r.Ticker] = r.CIK
	}
	assert.Equal(t, "0000320193", byTicker["AAPL"], "CIK is zero-padded to 10 digits")
	assert.Equal(t, "0000789019", byTicker["MSFT"])
}

func TestFetchSendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient("sectorvec test (dev@example.com)", WithTickersURL(srv.URL))
	_, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sectorvec test (dev@example.com)", got)
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("ua", WithTickersURL(srv.URL))
	_, err := c.Fetch(context.Background())
	require.Error(t, err)
}

func TestLoadOrFetchWritesAndReusesCache(t *testing.T) {
	hits := 0
	srv := newTickersServer(t, &hits)
	cache := filepath.Join(t.TempDir(), "tickers.json")

	c := NewClient("ua", WithTickersURL(srv.URL), WithCachePath(cache))

	first, err := c.LoadOrFetch(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, 1, hits)
	assert.FileExists(t, cache)

	// Second call must come from the cache, not the network.
	second, err := c.LoadOrFetch(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 3)
	assert.Equal(t, 1, hits)
}

func TestLoadOrFetchCreatesCacheDirectory(t *testing.T) {
	srv := newTickersServer(t, nil)
	// The cache lives under the filings root, which does not exist until
	// the first filing is downloaded.
	cache := filepath.Join(t.TempDir(), "filings", "tickers.json")

	c := NewClient("ua", WithTickersURL(srv.URL), WithCachePath(cache))

	records, err := c.LoadOrFetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.FileExists(t, cache)
}

func TestLoadOrFetchCorruptCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "tickers.json")
	require.NoError(t, os.WriteFile(cache, []byte("not json"), 0644))

	c := NewClient("ua", WithCachePath(cache))
	_, err := c.LoadOrFetch(context.Background())
	require.Error(t, err)
}

func TestProfileLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/AAPL", r.URL.Path)
		assert.Equal(t, "assetProfile", r.URL.Query().Get("modules"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary":{"result":[{"assetProfile":{"sector":"Technology","industry":"Consumer Electronics"}}]}}`))
	}))
	defer srv.Close()

	c := NewProfileClient(WithProfileURL(srv.URL))
	profile, err := c.Lookup(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "Technology", profile.Sector)
	assert.Equal(t, "Consumer Electronics", profile.Industry)
}

func TestProfileLookupNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"quoteSummary":{"result":[]}}`))
	}))
	defer srv.Close()

	c := NewProfileClient(WithProfileURL(srv.URL))
	_, err := c.Lookup(context.Background(), "NOPE")
	require.Error(t, err)
}
