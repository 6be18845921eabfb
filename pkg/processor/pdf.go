package processor

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfTextLimit caps the amount of extracted text kept for previews and
// link-free search display.
const pdfTextLimit = 16 * 1024

// PDFProcessor extracts page count, document info and text from PDFs.
type PDFProcessor struct{}

// Extensions lists the handled extensions.
func (p *PDFProcessor) Extensions() []string {
	return []string{"pdf"}
}

// Process parses a PDF. Parse failures yield a failed Result with the
// preserved error message rather than an error, so the File row is still
// created.
func (p *PDFProcessor) Process(ctx context.Context, path string) (result *Result, err error) {
	// The parser panics on some malformed files; treat that like any
	// other extraction failure.
	defer func() {
		if r := recover(); r != nil {
			result = failed(path, fmt.Errorf("pdf parse panic: %v", r))
			err = nil
		}
	}()

	f, reader, openErr := pdf.Open(path)
	if openErr != nil {
		return failed(path, openErr), nil
	}
	defer func() { _ = f.Close() }()

	metadata := map[string]any{
		"page_count": reader.NumPage(),
	}

	info := reader.Trailer().Key("Info")
	title := ""
	if !info.IsNull() {
		for _, key := range []string{"Author", "Title", "Subject", "Creator", "Producer", "CreationDate", "ModDate"} {
			value := info.Key(key)
			if value.Kind() != pdf.String {
				continue
			}
			if s := strings.TrimSpace(value.RawString()); s != "" {
				metadata[strings.ToLower(key)] = s
				if key == "Title" {
					title = s
				}
			}
		}
	}
	if title == "" {
		title = TitleFromFilename(path)
	}

	text := ""
	if textReader, textErr := reader.GetPlainText(); textErr == nil {
		buf := new(strings.Builder)
		_, _ = io.CopyN(buf, textReader, pdfTextLimit)
		text = buf.String()
	}

	return &Result{
		Title:    title,
		Preview:  previewOf(text),
		Metadata: metadata,
		Status:   StatusComplete,
	}, nil
}
