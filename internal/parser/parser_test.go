package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-assistant/internal/config"
)

func TestChunkContent(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		maxChars int
		overlap  int
		want     int
	}{
		{"empty content", "", 100, 10, 0},
		{"short content single chunk", "hello world", 100, 10, 1},
		{"zero max chars", "hello", 0, 0, 0},
		{"exact fit", strings.Repeat("a", 100), 100, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chunkContent(tt.content, tt.maxChars, tt.overlap)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestChunkContentOverlap(t *testing.T) {
	words := strings.Repeat("word ", 200) // 1000 chars
	chunks := chunkContent(words, 100, 20)

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 100)
		assert.NotEmpty(t, strings.TrimSpace(c))
	}
}

func TestChunkContentBreaksOnSentenceEnd(t *testing.T) {
	// a sentence end sits inside the look-back window of the first chunk
	content := strings.Repeat("a", 96) + ". " + strings.Repeat("b", 150)
	chunks := chunkContent(content, 100, 0)

	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0], "."), "first chunk %q should end on the sentence", chunks[0])
}

func TestChunkContentExcessiveOverlapClamped(t *testing.T) {
	content := strings.Repeat("x ", 300)
	// overlap >= maxChars must not loop forever
	chunks := chunkContent(content, 50, 50)
	assert.NotEmpty(t, chunks)
}

func TestGetChunksAssignsIDs(t *testing.T) {
	c := chunkerConfig{chunkSize: 50, chunkOverlap: 10}
	chunks := c.getChunks(strings.Repeat("lorem ipsum dolor ", 20), 4)

	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.Equal(t, i+1, ch.ChunkID)
		assert.Equal(t, 4, ch.PageNumber)
	}
}

func TestParseText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("A tenant must receive notice before eviction."), 0o644))

	chunks, err := Parse(path, testConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "notice before eviction")
	assert.Equal(t, 1, chunks[0].PageNumber)
}

func TestParseMarkdownStripsMarkup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.md")
	md := "# Filing a complaint\n\nFile the **complaint** with the *district* court.\n"
	require.NoError(t, os.WriteFile(path, []byte(md), 0o644))

	chunks, err := Parse(path, testConfig())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "Filing a complaint")
	assert.Contains(t, chunks[0].Content, "complaint with the district court")
	assert.NotContains(t, chunks[0].Content, "#")
	assert.NotContains(t, chunks[0].Content, "**")
}

func TestParseUnsupportedFormat(t *testing.T) {
	_, err := Parse("document.csv", testConfig())
	assert.Error(t, err)
}

func TestSupportedExt(t *testing.T) {
	assert.True(t, SupportedExt(".pdf"))
	assert.True(t, SupportedExt(".PDF"))
	assert.True(t, SupportedExt(".md"))
	assert.False(t, SupportedExt(".csv"))
	assert.False(t, SupportedExt(""))
}

func testConfig() *config.Config {
	cfg, _ := config.LoadConfig("does-not-exist.yaml")
	return cfg
}
