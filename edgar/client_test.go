package edgar

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

const submissionsPayload = `{
  "filings": {
    "recent": {
      "form": ["8-K", "10-K", "10-Q"],
      "accessionNumber": ["0000320193-24-000005", "0000320193-24-000002", "0000320193-24-000001"],
      "primaryDocument": ["ev.htm", "aapl-10k.htm", "aapl-10q.htm"]
    }
  }
}`

func TestClientDownload(t *testing.T) {
	subs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/CIK0000320193.json", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(submissionsPayload))
	}))
	defer subs.Close()

	var docPath string
	archives := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		docPath = r.URL.Path
		w.Write([]byte("<html>Item 1. Business ...</html>"))
	}))
	defer archives.Close()

	root := t.TempDir()
	c := NewClient(root, "sectorvec test (dev@example.com)",
		WithSubmissionsURL(subs.URL),
		WithArchivesURL(archives.URL))

	dir, err := c.Download(context.Background(), "10-K", testIssuer())
	require.NoError(t, err)

	// Unpadded CIK and dash-free accession in the archive path.
	assert.Equal(t, "/320193/000032019324000002/aapl-10k.htm", docPath)

	assert.Equal(t, filepath.Join(root, "AAPL", "10-K"), dir)
	data, err := os.ReadFile(filepath.Join(dir, "0000320193-24-000002", "aapl-10k.htm"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Item 1. Business")
}

func TestClientDownloadFormMissing(t *testing.T) {
	subs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(submissionsPayload))
	}))
	defer subs.Close()

	c := NewClient(t.TempDir(), "ua", WithSubmissionsURL(subs.URL))

	_, err := c.Download(context.Background(), "20-F", testIssuer())
	require.ErrorIs(t, err, ErrNoDocuments)
}

func TestClientDownloadServerError(t *testing.T) {
	subs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer subs.Close()

	c := NewClient(t.TempDir(), "ua", WithSubmissionsURL(subs.URL))

	_, err := c.Download(context.Background(), "10-K", testIssuer())
	require.Error(t, err)
}
