package models

import "time"

// PageLink is a directed edge between pages, computed from [[title]]
// occurrences in the source body. TargetPageID is null when the inner
// text resolves to no page in the library (a broken link). The edge set
// for a source page is replaced wholesale on every content change.
type PageLink struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	SourcePageID string    `gorm:"not null;size:36;index" json:"source_page_id"`
	TargetPageID *string   `gorm:"size:36;index" json:"target_page_id,omitempty"`
	LinkText     string    `gorm:"not null;size:255" json:"link_text"`
	Position     int       `gorm:"not null" json:"position"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for PageLink.
func (PageLink) TableName() string {
	return "page_links"
}

// IsResolved reports whether the link points at an existing page.
func (l *PageLink) IsResolved() bool {
	return l.TargetPageID != nil && *l.TargetPageID != ""
}
