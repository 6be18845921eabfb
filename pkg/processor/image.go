package processor

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// ImageProcessor extracts dimensions and color metadata from images,
// falling back to size-only when decoding fails.
type ImageProcessor struct{}

// Extensions lists the handled extensions.
func (p *ImageProcessor) Extensions() []string {
	return []string{"jpg", "jpeg", "png"}
}

// Process reads the image header for dimensions and color model. A file
// that cannot be decoded still yields a complete size-only result.
func (p *ImageProcessor) Process(ctx context.Context, path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{
		"size_bytes": info.Size(),
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	preview := fmt.Sprintf("Image, %d bytes", info.Size())
	cfg, format, decodeErr := image.DecodeConfig(f)
	if decodeErr == nil {
		metadata["width"] = cfg.Width
		metadata["height"] = cfg.Height
		metadata["format"] = format
		if cfg.ColorModel != nil {
			metadata["color_model"] = fmt.Sprintf("%T", cfg.ColorModel)
		}
		preview = fmt.Sprintf("%s image, %dx%d", format, cfg.Width, cfg.Height)
	}

	return &Result{
		Title:    TitleFromFilename(path),
		Preview:  preview,
		Metadata: metadata,
		Status:   StatusComplete,
	}, nil
}
