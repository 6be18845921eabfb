// Package processor extracts titles, previews and structured metadata
// from content files. Processors are flat and selected by file extension;
// each returns a Result regardless of outcome so callers can persist a
// row even when extraction fails.
package processor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// Status mirrors the processing outcome persisted on File rows.
type Status string

const (
	// StatusComplete means extraction succeeded.
	StatusComplete Status = "complete"
	// StatusFailed means extraction failed; Err carries the message.
	StatusFailed Status = "failed"
)

// Result is the outcome of processing one file.
type Result struct {
	// Title is the canonical display title derived from the content,
	// falling back to the filename.
	Title string

	// Preview is a short human-readable summary for display.
	Preview string

	// Metadata is the structured metadata bag, keys per kind.
	Metadata map[string]any

	// CoverPath is the absolute path of an extracted cover image, when
	// the processor produced one (EPUB only).
	CoverPath string

	// Status reports whether extraction succeeded.
	Status Status

	// Err is the preserved failure message when Status is StatusFailed.
	Err string
}

// Processor extracts metadata for one family of file kinds.
type Processor interface {
	// Extensions lists the lowercase extensions (without dot) handled.
	Extensions() []string

	// Process extracts metadata from the file at path.
	Process(ctx context.Context, path string) (*Result, error)
}

// Registry dispatches paths to processors by extension.
type Registry struct {
	byExt map[string]Processor
}

// NewRegistry builds a registry with the default processors.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Processor)}
	r.Register(&MarkdownProcessor{})
	r.Register(&PDFProcessor{})
	r.Register(&EPUBProcessor{})
	r.Register(&ImageProcessor{})
	return r
}

// Register adds a processor for its extensions.
func (r *Registry) Register(p Processor) {
	for _, ext := range p.Extensions() {
		r.byExt[ext] = p
	}
}

// For returns the processor for a path, or ErrUnsupportedFileType.
func (r *Registry) For(path string) (Processor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	p, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: .%s", models.ErrUnsupportedFileType, ext)
	}
	return p, nil
}

// Process dispatches by extension and runs the matching processor.
func (r *Registry) Process(ctx context.Context, path string) (*Result, error) {
	p, err := r.For(path)
	if err != nil {
		return nil, err
	}
	return p.Process(ctx, path)
}

// failed builds a Result for a preserved extraction failure. The file row
// is still created; only the metadata is missing.
func failed(path string, err error) *Result {
	return &Result{
		Title:    TitleFromFilename(path),
		Metadata: map[string]any{},
		Status:   StatusFailed,
		Err:      err.Error(),
	}
}

// TitleFromFilename derives a fallback title from a path's basename with
// the extension stripped.
func TitleFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
