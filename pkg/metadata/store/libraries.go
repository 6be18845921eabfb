package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// GetLibrary retrieves a library by ID.
func (s *GORMStore) GetLibrary(ctx context.Context, id string) (*models.Library, error) {
	return getByField[models.Library](s.db, ctx, "id", id, models.ErrLibraryNotFound)
}

// GetLibraryBySlug retrieves a user's library by its on-disk slug.
func (s *GORMStore) GetLibraryBySlug(ctx context.Context, userID, slug string) (*models.Library, error) {
	var lib models.Library
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND slug = ?", userID, slug).
		First(&lib).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrLibraryNotFound)
	}
	return &lib, nil
}

// ListLibraries returns all live libraries of a user, newest first.
func (s *GORMStore) ListLibraries(ctx context.Context, userID string) ([]*models.Library, error) {
	return listWhere[models.Library](s.db, ctx, "created_at DESC", "user_id = ?", userID)
}

// CreateLibrary inserts a new library. A live library of the user with the
// same slug maps to ErrDuplicateLibrary; soft-deleted rows are ignored so
// an archived library never blocks re-creating the name.
func (s *GORMStore) CreateLibrary(ctx context.Context, lib *models.Library) (string, error) {
	var id string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Library{}).
			Where("user_id = ? AND slug = ?", lib.UserID, lib.Slug).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrDuplicateLibrary
		}
		var err error
		id, err = createWithID(tx, ctx, lib,
			func(l *models.Library, id string) { l.ID = id }, lib.ID, models.ErrDuplicateLibrary)
		return err
	})
	return id, err
}

// SoftDeleteLibrary marks a library deleted. Rows under it are kept; the
// content store moves the folder under the archive root separately.
func (s *GORMStore) SoftDeleteLibrary(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Library{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrLibraryNotFound
	}
	return nil
}

// deleteLibraryRows hard-deletes everything owned by a library inside an
// open transaction. Used by user deletion (archive-then-delete).
func deleteLibraryRows(tx *gorm.DB, libraryID string) error {
	// Links sourced at any page of this library
	if err := tx.Exec(`DELETE FROM page_links WHERE source_page_id IN
		(SELECT id FROM pages WHERE library_id = ?)`, libraryID).Error; err != nil {
		return err
	}
	if err := tx.Exec(`DELETE FROM workspace_items WHERE workspace_id IN
		(SELECT id FROM workspaces WHERE library_id = ?)`, libraryID).Error; err != nil {
		return err
	}
	for _, model := range []any{&models.Workspace{}, &models.Page{}, &models.File{}} {
		if err := tx.Unscoped().Where("library_id = ?", libraryID).Delete(model).Error; err != nil {
			return err
		}
	}
	return tx.Unscoped().Where("id = ?", libraryID).Delete(&models.Library{}).Error
}

// LibraryOwnedBy reports whether the library exists and belongs to the
// given user. Ownership mismatches are indistinguishable from absence so
// handlers can answer NOT_FOUND without leaking existence.
func (s *GORMStore) LibraryOwnedBy(ctx context.Context, libraryID, userID string) (*models.Library, error) {
	var lib models.Library
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", libraryID, userID).
		First(&lib).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrLibraryNotFound)
	}
	return &lib, nil
}
