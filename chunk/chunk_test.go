package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reassemble drops the leading overlap from every chunk after the first and
// concatenates the remainder.
func reassemble(chunks []string, overlap int) string {
	var b strings.Builder
	for i, c := range chunks {
		if i == 0 {
			b.WriteString(c)
			continue
		}
		if len(c) > overlap {
			b.WriteString(c[overlap:])
		}
	}
	return b.String()
}

func TestSplitNoOp(t *testing.T) {
	text := "short document"
	got := Split(text, 100, 10)
	require.Len(t, got, 1)
	assert.Equal(t, text, got[0])
}

func TestSplitExactLength(t *testing.T) {
	text := strings.Repeat("a", 100)
	got := Split(text, 100, 10)
	require.Len(t, got, 1)
	assert.Equal(t, text, got[0])
}

func TestSplitRoundTrip(t *testing.T) {
	sentence := "The company designs and manufactures semiconductors for many markets. "
	text := strings.Repeat(sentence, 200) // ~14k chars
	maxLen, overlap := 1000, 100

	chunks := Split(text, maxLen, overlap)

	require.GreaterOrEqual(t, len(chunks), 2)
	for i, c := range chunks {
		assert.LessOrEqual(t, len(c), maxLen, "chunk %d exceeds max length", i)
		assert.NotEmpty(t, c, "chunk %d is empty", i)
	}
	assert.Equal(t, text, reassemble(chunks, overlap))
}

func TestSplitCutsAtSentenceBoundary(t *testing.T) {
	sentence := "Revenue grew across every segment this quarter. "
	text := strings.Repeat(sentence, 100)

	chunks := Split(text, 500, 50)

	require.GreaterOrEqual(t, len(chunks), 2)
	// Every non-final chunk should end right after a sentence delimiter.
	for i := 0; i < len(chunks)-1; i++ {
		assert.True(t, strings.HasSuffix(chunks[i], ". "),
			"chunk %d does not end at a sentence boundary: %q", i, chunks[i][len(chunks[i])-20:])
	}
}

func TestSplitNoBoundaryHardCut(t *testing.T) {
	text := strings.Repeat("x", 2500) // no delimiters at all
	maxLen, overlap := 1000, 100

	chunks := Split(text, maxLen, overlap)

	require.GreaterOrEqual(t, len(chunks), 2)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), maxLen)
	}
	assert.Equal(t, text, reassemble(chunks, overlap))
}

func TestSplitTerminatesWhenOverlapExceedsMax(t *testing.T) {
	text := strings.Repeat("y", 5000)

	// overlap >= maxLength must not loop forever; the window start still
	// strictly advances.
	chunks := Split(text, 100, 100)
	assert.NotEmpty(t, chunks)

	chunks = Split(text, 100, 500)
	assert.NotEmpty(t, chunks)
	assert.Less(t, len(chunks), len(text)+1)
}

func TestSplitEmptyText(t *testing.T) {
	got := Split("", 100, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0])
}
