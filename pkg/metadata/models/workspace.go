package models

import (
	"time"

	"gorm.io/gorm"
)

// Workspace is an ordered, mixed-kind view referencing pages and files
// within a library. Deleting a workspace never deletes its referents.
type Workspace struct {
	ID             string         `gorm:"primaryKey;size:36" json:"id"`
	LibraryID      string         `gorm:"not null;size:36;index" json:"library_id"`
	Title          string         `gorm:"not null;size:255" json:"title"`
	IsFavorited    bool           `gorm:"default:false" json:"is_favorited"`
	LastAccessedAt *time.Time     `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	Items []WorkspaceItem `gorm:"foreignKey:WorkspaceID" json:"items,omitempty"`
}

// TableName returns the table name for Workspace.
func (Workspace) TableName() string {
	return "workspaces"
}

// ItemKind tags the referent of a workspace item.
type ItemKind string

const (
	// ItemKindPage references a Page row.
	ItemKindPage ItemKind = "page"
	// ItemKindFile references a File row.
	ItemKindFile ItemKind = "file"
)

// IsValid checks if the kind is one of the known variants.
func (k ItemKind) IsValid() bool {
	return k == ItemKindPage || k == ItemKindFile
}

// WorkspaceItem is the membership edge between a workspace and a page or
// file. Positions are a single dense 0-based run shared by both kinds;
// the workspace engine owns all position arithmetic.
type WorkspaceItem struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	WorkspaceID   string    `gorm:"not null;size:36;uniqueIndex:idx_workspace_items_membership" json:"workspace_id"`
	ItemID        string    `gorm:"not null;size:36;uniqueIndex:idx_workspace_items_membership" json:"item_id"`
	ItemKind      string    `gorm:"not null;size:10;uniqueIndex:idx_workspace_items_membership" json:"item_kind"`
	Position      int       `gorm:"not null" json:"position"`
	Depth         int       `gorm:"not null;default:0" json:"depth"`
	IsInAIContext bool      `gorm:"default:false" json:"is_in_ai_context"`
	IsCollapsed   bool      `gorm:"default:false" json:"is_collapsed"`
	AddedAt       time.Time `gorm:"autoCreateTime" json:"added_at"`
}

// TableName returns the table name for WorkspaceItem.
func (WorkspaceItem) TableName() string {
	return "workspace_items"
}
