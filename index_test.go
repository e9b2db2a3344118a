package sectorvec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/sectorvec/ai"
	"github.com/poiesic/sectorvec/edgar"
	"github.com/poiesic/sectorvec/ingest"
)

func testAIConfig() *ai.Config {
	return ai.NewConfig(ai.WithAPIKey("test-key"))
}

func TestNewIndex(t *testing.T) {
	t.Run("create new index", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		ix, err := NewIndex(tmpDir, WithAIConfig(testAIConfig()))
		require.NoError(t, err)
		require.NotNil(t, ix)
		defer ix.Close()

		assert.NotNil(t, ix.CompanyRepository())
		assert.NotNil(t, ix.backend)
		assert.NotNil(t, ix.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		ix, err := NewIndex(tmpFile, WithAIConfig(testAIConfig()))
		assert.Error(t, err)
		assert.Nil(t, ix)
	})

	t.Run("error without API key", func(t *testing.T) {
		ix, err := NewIndex(t.TempDir())
		assert.Error(t, err)
		assert.Nil(t, ix)
	})
}

func TestIndex_Close(t *testing.T) {
	ix, err := NewIndex(t.TempDir(), WithAIConfig(testAIConfig()))
	require.NoError(t, err)
	require.NotNil(t, ix)

	err = ix.Close()
	assert.NoError(t, err)
}

func TestIndex_FactoryMethods(t *testing.T) {
	ix, err := NewIndex(t.TempDir(), WithAIConfig(testAIConfig()))
	require.NoError(t, err)
	require.NotNil(t, ix)
	defer ix.Close()

	t.Run("can create writer", func(t *testing.T) {
		assert.NotNil(t, ix.NewWriter())
	})

	t.Run("can create builder", func(t *testing.T) {
		builder, err := ix.NewBuilder(t.TempDir(), "test-agent test@example.com",
			WithFetcherOptions(edgar.WithForms([]string{"10-K"})),
			WithIngestOptions(ingest.WithLimit(1)))
		require.NoError(t, err)
		require.NotNil(t, builder)
	})

	t.Run("can create searcher", func(t *testing.T) {
		assert.NotNil(t, ix.NewSearcher())
	})

	t.Run("can create MCP server", func(t *testing.T) {
		assert.NotNil(t, ix.NewMCPServer())
	})
}
