package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// PageType distinguishes the three lifecycles a page can be in.
type PageType string

const (
	// PageTypeSaved is a page backed by a markdown file under pages/.
	PageTypeSaved PageType = "saved"
	// PageTypeFile is a page that fronts an uploaded File row.
	PageTypeFile PageType = "file"
	// PageTypeUnsaved is a draft tied to a workspace, with no backing file.
	PageTypeUnsaved PageType = "unsaved"
)

// IsValid checks if the page type is one of the known kinds.
func (t PageType) IsValid() bool {
	return t == PageTypeSaved || t == PageTypeFile || t == PageTypeUnsaved
}

// PreviewLength is the number of leading content characters stored as the
// page's display preview.
const PreviewLength = 256

// Page is a textual content item within a library.
//
// Invariants by type:
//   - saved: Title required and unique within the library; FilePath set.
//   - file: Title and FileID required; FileID points at a File row.
//   - unsaved: Title may be empty; WorkspaceID required. Setting a
//     non-empty title converts the page to saved.
type Page struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	LibraryID      string         `gorm:"not null;size:36;index" json:"library_id"`
	Title          *string        `gorm:"size:255" json:"title,omitempty"`
	PageType       string         `gorm:"not null;size:20;default:saved" json:"page_type"`
	Content        string         `json:"content"`
	ContentPreview string         `gorm:"size:512" json:"content_preview"`
	FilePath       string         `json:"file_path,omitempty"`
	FileID         *string        `gorm:"size:36;index" json:"file_id,omitempty"`
	WorkspaceID    *string        `gorm:"size:36;index" json:"workspace_id,omitempty"`
	FileHash       string         `gorm:"size:64" json:"file_hash,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName returns the table name for Page.
func (Page) TableName() string {
	return "pages"
}

// TitleOrEmpty returns the title, or "" for an untitled draft.
func (p *Page) TitleOrEmpty() string {
	if p.Title == nil {
		return ""
	}
	return *p.Title
}

// Validate checks the per-type invariants.
func (p *Page) Validate() error {
	if !PageType(p.PageType).IsValid() {
		return fmt.Errorf("invalid page type %q", p.PageType)
	}
	switch PageType(p.PageType) {
	case PageTypeSaved:
		if p.TitleOrEmpty() == "" {
			return fmt.Errorf("saved page requires a title")
		}
	case PageTypeFile:
		if p.TitleOrEmpty() == "" {
			return fmt.Errorf("file page requires a title")
		}
		if p.FileID == nil || *p.FileID == "" {
			return fmt.Errorf("file page requires a file_id")
		}
	case PageTypeUnsaved:
		if p.WorkspaceID == nil || *p.WorkspaceID == "" {
			return fmt.Errorf("unsaved page requires a workspace_id")
		}
	}
	return nil
}

// Preview computes the stored content preview from a body.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= PreviewLength {
		return content
	}
	return string(runes[:PreviewLength])
}
