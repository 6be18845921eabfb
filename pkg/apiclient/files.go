package apiclient

import (
	"io"
	"time"
)

// File represents an uploaded file's metadata.
type File struct {
	ID               string    `json:"id"`
	LibraryID        string    `json:"library_id"`
	FileName         string    `json:"file_name"`
	FileType         string    `json:"file_type"`
	Size             int64     `json:"size"`
	Title            string    `json:"title,omitempty"`
	Author           string    `json:"author,omitempty"`
	Description      string    `json:"description,omitempty"`
	PDFPageCount     int       `json:"pdf_page_count,omitempty"`
	EpubChapterCount int       `json:"epub_chapter_count,omitempty"`
	ImageWidth       int       `json:"image_width,omitempty"`
	ImageHeight      int       `json:"image_height,omitempty"`
	HasCover         bool      `json:"has_cover"`
	ProcessingStatus string    `json:"processing_status"`
	ProcessingError  string    `json:"processing_error,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// UploadResult is one file's outcome within an upload batch. Failures
// are per-file; Error is set instead of File when a part was rejected.
type UploadResult struct {
	File    File   `json:"file"`
	Page    *Page  `json:"page,omitempty"`
	Skipped bool   `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

// ListFiles returns a library's files.
func (c *Client) ListFiles(libraryID string) ([]File, error) {
	return listResources[File](c, resourcePath("/api/v1/libraries/%s/files", libraryID))
}

// UploadFiles uploads local files into a library. mode selects duplicate
// handling: "skip", "replace" or "rename" (empty means skip).
func (c *Client) UploadFiles(libraryID, mode string, paths []string) ([]UploadResult, error) {
	fields := map[string]string{}
	if mode != "" {
		fields["mode"] = mode
	}
	var results []UploadResult
	if err := c.doMultipart(resourcePath("/api/v1/libraries/%s/files", libraryID), fields, paths, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GetFile returns a file's metadata.
func (c *Client) GetFile(fileID string) (*File, error) {
	return getResource[File](c, resourcePath("/api/v1/files/%s", fileID))
}

// DeleteFile deletes a file, its companion page, and its on-disk copy.
func (c *Client) DeleteFile(fileID string) error {
	return deleteResource(c, resourcePath("/api/v1/files/%s", fileID))
}

// DownloadFile streams a file's original bytes to w.
func (c *Client) DownloadFile(fileID string, w io.Writer) error {
	return c.getRaw(resourcePath("/api/v1/files/%s/download", fileID), w)
}

// ReprocessFile re-runs metadata extraction for a file.
func (c *Client) ReprocessFile(fileID string) (*File, error) {
	return createResource[File](c, resourcePath("/api/v1/files/%s/reprocess", fileID), nil)
}
