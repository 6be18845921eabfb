package processor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestMarkdownFrontmatter(t *testing.T) {
	body := "---\ntitle: \"My Note\"\nauthor: alice\n---\n# Heading\n\nSome text with [[Todo]] and #projects tag.\n"
	path := writeTemp(t, "note.md", []byte(body))

	p := &MarkdownProcessor{}
	result, err := p.Process(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, result.Status)
	assert.Equal(t, "My Note", result.Title)
	assert.Equal(t, "alice", result.Metadata["frontmatter_author"])
	assert.Equal(t, 1, result.Metadata["heading_count"])
	assert.Equal(t, 1, result.Metadata["link_count"])
	assert.Equal(t, []string{"projects"}, result.Metadata["tags"])
}

func TestMarkdownTitleDerivation(t *testing.T) {
	t.Run("first short line", func(t *testing.T) {
		path := writeTemp(t, "untitled.md", []byte("Weekly Review\n\nlong body follows\n"))
		result, err := (&MarkdownProcessor{}).Process(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "Weekly Review", result.Title)
	})

	t.Run("heading marker stripped", func(t *testing.T) {
		path := writeTemp(t, "h.md", []byte("# Reading List\ncontent\n"))
		result, err := (&MarkdownProcessor{}).Process(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "Reading List", result.Title)
	})

	t.Run("falls back to filename", func(t *testing.T) {
		path := writeTemp(t, "meeting-notes.md", []byte("A sentence that ends with punctuation.\n"))
		result, err := (&MarkdownProcessor{}).Process(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, "meeting-notes", result.Title)
	})
}

func TestDecodeText(t *testing.T) {
	t.Run("utf8 bom stripped", func(t *testing.T) {
		got, err := DecodeText(append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...))
		require.NoError(t, err)
		assert.Equal(t, "hello", got)
	})

	t.Run("utf16le decoded", func(t *testing.T) {
		raw := []byte{0xFF, 0xFE, 'h', 0, 'i', 0}
		got, err := DecodeText(raw)
		require.NoError(t, err)
		assert.Equal(t, "hi", got)
	})

	t.Run("utf16be decoded", func(t *testing.T) {
		raw := []byte{0xFE, 0xFF, 0, 'h', 0, 'i'}
		got, err := DecodeText(raw)
		require.NoError(t, err)
		assert.Equal(t, "hi", got)
	})

	t.Run("binary rejected", func(t *testing.T) {
		raw := make([]byte, 200)
		for i := range raw {
			raw[i] = byte(i % 7) // plenty of NULs and control bytes
		}
		_, err := DecodeText(raw)
		assert.Error(t, err)
	})
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()

	for _, ext := range []string{"md", "txt", "pdf", "epub", "jpg", "jpeg", "png"} {
		_, err := r.For("x." + ext)
		assert.NoError(t, err, "extension %s", ext)
	}

	_, err := r.For("x.docx")
	assert.Error(t, err)
}
