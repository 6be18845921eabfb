package models

import (
	"time"

	"gorm.io/gorm"
)

// Library is a named per-user collection of pages and files, backed by a
// directory on disk. The (user, slug) pair is unique among live rows so no
// two libraries of a user can collide on the filesystem; the store enforces
// this at create time rather than with a unique index, because soft-deleted
// rows keep their slug and must not block re-creating the name after the
// folder has been archived.
type Library struct {
	ID         string         `gorm:"primaryKey;size:36" json:"id"`
	UserID     string         `gorm:"not null;size:36;index:idx_libraries_user_slug" json:"user_id"`
	Name       string         `gorm:"not null;size:50" json:"name"`
	Slug       string         `gorm:"not null;size:50;index:idx_libraries_user_slug" json:"slug"`
	FolderPath string         `gorm:"not null" json:"folder_path"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Pages      []Page      `gorm:"foreignKey:LibraryID" json:"pages,omitempty"`
	Files      []File      `gorm:"foreignKey:LibraryID" json:"files,omitempty"`
	Workspaces []Workspace `gorm:"foreignKey:LibraryID" json:"workspaces,omitempty"`
}

// TableName returns the table name for Library.
func (Library) TableName() string {
	return "libraries"
}
