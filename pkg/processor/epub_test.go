package processor

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContainerXML = `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const testOPF = `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" xmlns:dc="http://purl.org/dc/elements/1.1/" version="2.0">
  <metadata>
    <dc:title>The Test Book</dc:title>
    <dc:creator>Jane Author</dc:creator>
    <dc:publisher>Test Press</dc:publisher>
    <dc:language>en</dc:language>
    <dc:identifier opf:scheme="ISBN" xmlns:opf="http://www.idpf.org/2007/opf">urn:isbn:9780000000001</dc:identifier>
    <dc:description>A book assembled in a test.</dc:description>
    <meta name="cover" content="cover-img"/>
  </metadata>
  <manifest>
    <item id="cover-img" href="cover.png" media-type="image/png"/>
    <item id="ch1" href="ch1.xhtml" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine toc="ncx">
    <itemref idref="ch1"/>
    <itemref idref="ch2"/>
  </spine>
</package>`

func buildTestEPUB(t *testing.T, dir string) string {
	t.Helper()

	var coverBuf bytes.Buffer
	require.NoError(t, png.Encode(&coverBuf, image.NewRGBA(image.Rect(0, 0, 4, 4))))

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, data := range map[string][]byte{
		"mimetype":               []byte("application/epub+zip"),
		"META-INF/container.xml": []byte(testContainerXML),
		"OEBPS/content.opf":      []byte(testOPF),
		"OEBPS/cover.png":        coverBuf.Bytes(),
		"OEBPS/ch1.xhtml":        []byte("<html/>"),
		"OEBPS/ch2.xhtml":        []byte("<html/>"),
	} {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(dir, "book.epub")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestEPUBProcess(t *testing.T) {
	dir := t.TempDir()
	path := buildTestEPUB(t, dir)

	result, err := (&EPUBProcessor{}).Process(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, StatusComplete, result.Status)
	assert.Equal(t, "The Test Book", result.Title)
	assert.Equal(t, "Jane Author", result.Metadata["creator"])
	assert.Equal(t, "Test Press", result.Metadata["publisher"])
	assert.Equal(t, 2, result.Metadata["chapter_count"])
	assert.Equal(t, true, result.Metadata["has_toc"])
	assert.Equal(t, true, result.Metadata["has_images"])
	assert.Contains(t, result.Metadata["isbn"], "9780000000001")

	require.NotEmpty(t, result.CoverPath)
	assert.Equal(t, filepath.Join(dir, "covers", "book_cover.png"), result.CoverPath)
	if _, err := os.Stat(result.CoverPath); err != nil {
		t.Errorf("cover not written: %v", err)
	}
}

func TestEPUBRejectsNonZip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.epub")
	require.NoError(t, os.WriteFile(path, []byte("not a zip at all"), 0o644))

	result, err := (&EPUBProcessor{}).Process(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, result.Status)
	assert.True(t, strings.Contains(result.Err, "ZIP signature"))
}

func TestImageProcess(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 20))))
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	result, err := (&ImageProcessor{}).Process(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, result.Status)
	assert.Equal(t, 10, result.Metadata["width"])
	assert.Equal(t, 20, result.Metadata["height"])
	assert.Equal(t, "png", result.Metadata["format"])
}

func TestImageFallsBackToSizeOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o644))

	result, err := (&ImageProcessor{}).Process(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, result.Status)
	assert.Equal(t, int64(12), result.Metadata["size_bytes"])
	_, hasWidth := result.Metadata["width"]
	assert.False(t, hasWidth)
}
