package processor

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

// EPUBProcessor extracts OPF metadata and the cover image from EPUBs.
// Covers are written to the covers/ directory next to the uploaded file,
// named <basename>_cover.<ext>.
type EPUBProcessor struct{}

// Extensions lists the handled extensions.
func (p *EPUBProcessor) Extensions() []string {
	return []string{"epub"}
}

var zipSignature = []byte{'P', 'K', 0x03, 0x04}

// Process validates the ZIP signature, walks container.xml to the OPF
// package document and extracts Dublin Core metadata, chapter count and
// the cover image. Failures yield a failed Result with a preserved
// message; the File row is still created.
func (p *EPUBProcessor) Process(ctx context.Context, epubPath string) (*Result, error) {
	head := make([]byte, 4)
	f, err := os.Open(epubPath)
	if err != nil {
		return nil, err
	}
	_, readErr := io.ReadFull(f, head)
	_ = f.Close()
	if readErr != nil || !bytes.Equal(head, zipSignature) {
		return failed(epubPath, fmt.Errorf("not a valid EPUB: missing ZIP signature")), nil
	}

	zr, err := zip.OpenReader(epubPath)
	if err != nil {
		return failed(epubPath, fmt.Errorf("open epub archive: %v", err)), nil
	}
	defer func() { _ = zr.Close() }()

	opfPath, err := containerRootfile(&zr.Reader)
	if err != nil {
		return failed(epubPath, err), nil
	}

	opfData, err := readZipFile(&zr.Reader, opfPath)
	if err != nil {
		return failed(epubPath, err), nil
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(opfData); err != nil {
		return failed(epubPath, fmt.Errorf("parse package document: %v", err)), nil
	}

	pkg := doc.FindElement("//package")
	if pkg == nil {
		return failed(epubPath, fmt.Errorf("package document has no package element")), nil
	}

	metadata := map[string]any{}
	title := ""
	for _, field := range []struct{ tag, key string }{
		{"title", "title"},
		{"creator", "creator"},
		{"publisher", "publisher"},
		{"language", "language"},
		{"date", "date"},
		{"description", "description"},
	} {
		if el := pkg.FindElement("metadata/" + field.tag); el != nil {
			text := strings.TrimSpace(el.Text())
			if text != "" {
				metadata[field.key] = text
				if field.tag == "title" {
					title = text
				}
			}
		}
	}
	for _, el := range pkg.FindElements("metadata/identifier") {
		text := strings.TrimSpace(el.Text())
		if strings.Contains(strings.ToLower(text), "isbn") ||
			strings.EqualFold(el.SelectAttrValue("scheme", ""), "isbn") {
			metadata["isbn"] = text
		}
	}
	if title == "" {
		title = TitleFromFilename(epubPath)
	}

	chapters := len(pkg.FindElements("spine/itemref"))
	metadata["chapter_count"] = chapters
	metadata["has_toc"] = pkg.FindElement("spine") != nil &&
		pkg.FindElement("spine").SelectAttrValue("toc", "") != ""

	hasImages := false
	for _, item := range pkg.FindElements("manifest/item") {
		if strings.HasPrefix(item.SelectAttrValue("media-type", ""), "image/") {
			hasImages = true
			break
		}
	}
	metadata["has_images"] = hasImages

	coverPath := ""
	if href, mediaType := findCoverItem(pkg); href != "" {
		coverPath = extractCover(&zr.Reader, epubPath, opfPath, href, mediaType)
	}

	preview, _ := metadata["description"].(string)
	return &Result{
		Title:     title,
		Preview:   previewOf(preview),
		Metadata:  metadata,
		CoverPath: coverPath,
		Status:    StatusComplete,
	}, nil
}

// containerRootfile reads META-INF/container.xml and returns the OPF path.
func containerRootfile(zr *zip.Reader) (string, error) {
	data, err := readZipFile(zr, "META-INF/container.xml")
	if err != nil {
		return "", fmt.Errorf("missing container.xml: %v", err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("parse container.xml: %v", err)
	}
	rootfile := doc.FindElement("//rootfile")
	if rootfile == nil {
		return "", fmt.Errorf("container.xml has no rootfile")
	}
	full := rootfile.SelectAttrValue("full-path", "")
	if full == "" {
		return "", fmt.Errorf("rootfile has no full-path")
	}
	return full, nil
}

// findCoverItem locates the cover image in the manifest, either via a
// meta[name=cover] reference or an item with the cover-image property.
func findCoverItem(pkg *etree.Element) (href, mediaType string) {
	coverID := ""
	for _, meta := range pkg.FindElements("metadata/meta") {
		if meta.SelectAttrValue("name", "") == "cover" {
			coverID = meta.SelectAttrValue("content", "")
			break
		}
	}
	for _, item := range pkg.FindElements("manifest/item") {
		id := item.SelectAttrValue("id", "")
		props := item.SelectAttrValue("properties", "")
		if (coverID != "" && id == coverID) || strings.Contains(props, "cover-image") {
			return item.SelectAttrValue("href", ""), item.SelectAttrValue("media-type", "")
		}
	}
	return "", ""
}

// extractCover decodes the cover entry and writes it under the covers/
// directory beside the EPUB. Failures are silent: a missing cover is not
// a processing error.
func extractCover(zr *zip.Reader, epubPath, opfPath, href, mediaType string) string {
	entry := path.Join(path.Dir(opfPath), href)
	data, err := readZipFile(zr, entry)
	if err != nil {
		// some books reference the cover relative to the archive root
		if data, err = readZipFile(zr, href); err != nil {
			return ""
		}
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(href), "."))
	switch mediaType {
	case "image/jpeg":
		ext = "jpg"
	case "image/png":
		ext = "png"
	case "image/gif":
		ext = "gif"
	case "image/webp":
		ext = "webp"
	}
	if ext == "" {
		ext = "jpg"
	}

	base := strings.TrimSuffix(filepath.Base(epubPath), filepath.Ext(epubPath))
	coversDir := filepath.Join(filepath.Dir(epubPath), "covers")
	if err := os.MkdirAll(coversDir, 0o755); err != nil {
		return ""
	}
	out := filepath.Join(coversDir, base+"_cover."+ext)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return ""
	}
	return out
}

// readZipFile reads one entry from a ZIP archive by name.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("entry %q not found", name)
}
