package models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// FileType classifies an uploaded document.
type FileType string

const (
	// FileTypePDF is a PDF document.
	FileTypePDF FileType = "pdf"
	// FileTypeEPUB is an EPUB book.
	FileTypeEPUB FileType = "epub"
	// FileTypeImage is a JPEG or PNG image.
	FileTypeImage FileType = "image"
)

// IsValid checks if the file type is one of the known kinds.
func (t FileType) IsValid() bool {
	return t == FileTypePDF || t == FileTypeEPUB || t == FileTypeImage
}

// FileTypeForExtension maps a filename extension to a FileType.
// Returns ErrUnsupportedFileType for anything else.
func FileTypeForExtension(ext string) (FileType, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return FileTypePDF, nil
	case "epub":
		return FileTypeEPUB, nil
	case "jpg", "jpeg", "png":
		return FileTypeImage, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
}

// ProcessingStatus tracks the outcome of metadata extraction for a file.
type ProcessingStatus string

const (
	// ProcessingPending means the file has not been processed yet.
	ProcessingPending ProcessingStatus = "pending"
	// ProcessingComplete means metadata extraction succeeded.
	ProcessingComplete ProcessingStatus = "complete"
	// ProcessingFailed means extraction failed; the row is kept with the error.
	ProcessingFailed ProcessingStatus = "failed"
)

// File is an uploaded binary document with extracted metadata. Files are
// not pages; a file-kind Page may front a File row for workspace listings.
type File struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	LibraryID        string         `gorm:"not null;size:36;index" json:"library_id"`
	FileName         string         `gorm:"not null;size:255" json:"file_name"`
	FileType         string         `gorm:"not null;size:20" json:"file_type"`
	Size             int64          `gorm:"not null" json:"size"`
	Path             string         `gorm:"not null" json:"path"`
	FileHash         string         `gorm:"size:64" json:"file_hash,omitempty"`
	Title            string         `gorm:"size:512" json:"title,omitempty"`
	Author           string         `gorm:"size:512" json:"author,omitempty"`
	Description      string         `json:"description,omitempty"`
	PDFPageCount     int            `json:"pdf_page_count,omitempty"`
	EpubChapterCount int            `json:"epub_chapter_count,omitempty"`
	ImageWidth       int            `json:"image_width,omitempty"`
	ImageHeight      int            `json:"image_height,omitempty"`
	CoverImagePath   string         `json:"cover_image_path,omitempty"`
	ContentPreview   string         `gorm:"size:2048" json:"content_preview,omitempty"`
	ProcessingStatus string         `gorm:"not null;size:20;default:pending" json:"processing_status"`
	ProcessingError  string         `json:"processing_error,omitempty"`
	UploadedAt       time.Time      `gorm:"autoCreateTime" json:"uploaded_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for File.
func (File) TableName() string {
	return "files"
}
