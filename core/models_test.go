package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprintFromContent(t *testing.T) {
	fp1 := FingerprintFromContent("some filing text")
	fp2 := FingerprintFromContent("some filing text")
	fp3 := FingerprintFromContent("different filing text")

	assert.Equal(t, fp1, fp2, "identical content should produce identical fingerprints")
	assert.NotEqual(t, fp1, fp3, "different content should produce different fingerprints")
	assert.NotZero(t, fp1)
}

func TestIssuerRecordID(t *testing.T) {
	withTicker := &IssuerRecord{Ticker: "NVDA", CIK: "1045810"}
	assert.Equal(t, "NVDA", withTicker.ID())

	cikOnly := &IssuerRecord{CIK: "1045810"}
	assert.Equal(t, "1045810", cikOnly.ID())
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "NVDA_chunk0", ChunkID("NVDA", 0))
	assert.Equal(t, "NVDA_chunk12", ChunkID("NVDA", 12))
}

func TestBaseID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"NVDA", "NVDA"},
		{"NVDA_chunk0", "NVDA"},
		{"NVDA_chunk12", "NVDA"},
		{"BRK_chunky", "BRK_chunky"}, // suffix is not a chunk index
		{"A_chunk1_chunk2", "A_chunk1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BaseID(tt.id), "BaseID(%q)", tt.id)
	}
}

func TestIsChunkID(t *testing.T) {
	assert.False(t, IsChunkID("NVDA"))
	assert.True(t, IsChunkID("NVDA_chunk3"))
	assert.False(t, IsChunkID("BRK_chunky"))
}

func TestValidateIndexRecord(t *testing.T) {
	valid := &IndexRecord{ID: "NVDA", Document: "=== Business Section ===\n..."}
	require.NoError(t, ValidateIndexRecord(valid))

	err := ValidateIndexRecord(&IndexRecord{Document: "text"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyID)

	err = ValidateIndexRecord(&IndexRecord{ID: "NVDA"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyDocument)

	err = ValidateIndexRecord(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidIndexRecord)
}

func TestValidateIssuer(t *testing.T) {
	require.NoError(t, ValidateIssuer(&IssuerRecord{Ticker: "AAPL"}))
	require.NoError(t, ValidateIssuer(&IssuerRecord{CIK: "320193"}))
	assert.ErrorIs(t, ValidateIssuer(&IssuerRecord{}), ErrInvalidIssuer)
	assert.ErrorIs(t, ValidateIssuer(nil), ErrInvalidIssuer)
}
