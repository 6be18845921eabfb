package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// GetPage retrieves a page by ID.
func (s *GORMStore) GetPage(ctx context.Context, id string) (*models.Page, error) {
	return getByField[models.Page](s.db, ctx, "id", id, models.ErrPageNotFound)
}

// GetPageByTitle retrieves a live page in a library by case-insensitive
// trimmed title match. Used by link resolution.
func (s *GORMStore) GetPageByTitle(ctx context.Context, libraryID, title string) (*models.Page, error) {
	var page models.Page
	err := s.db.WithContext(ctx).
		Where("library_id = ? AND LOWER(TRIM(title)) = ?", libraryID, strings.ToLower(strings.TrimSpace(title))).
		First(&page).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrPageNotFound)
	}
	return &page, nil
}

// ListPages returns all live pages of a library ordered by title.
func (s *GORMStore) ListPages(ctx context.Context, libraryID string) ([]*models.Page, error) {
	return listWhere[models.Page](s.db, ctx, "title ASC", "library_id = ?", libraryID)
}

// ListPagesWithBacking returns live pages of a library that carry a
// backing file path. Used by the reconciler.
func (s *GORMStore) ListPagesWithBacking(ctx context.Context, libraryID string) ([]*models.Page, error) {
	return listWhere[models.Page](s.db, ctx, "title ASC",
		"library_id = ? AND file_path <> ''", libraryID)
}

// CreatePage inserts a page after validating its per-type invariants.
// A duplicate saved title in the library maps to ErrDuplicatePage.
func (s *GORMStore) CreatePage(ctx context.Context, page *models.Page) (string, error) {
	if err := page.Validate(); err != nil {
		return "", err
	}
	if page.TitleOrEmpty() != "" {
		if err := s.checkTitleFree(ctx, s.db, page.LibraryID, page.TitleOrEmpty(), ""); err != nil {
			return "", err
		}
	}
	return createWithID(s.db, ctx, page,
		func(p *models.Page, id string) { p.ID = id }, page.ID, models.ErrDuplicatePage)
}

// checkTitleFree returns ErrDuplicatePage when another live page in the
// library already has this title (case-insensitive). excludeID skips the
// page being updated.
func (s *GORMStore) checkTitleFree(ctx context.Context, db *gorm.DB, libraryID, title, excludeID string) error {
	var count int64
	q := db.WithContext(ctx).Model(&models.Page{}).
		Where("library_id = ? AND LOWER(TRIM(title)) = ?", libraryID, strings.ToLower(strings.TrimSpace(title)))
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return models.ErrDuplicatePage
	}
	return nil
}

// UpdatePageContent replaces a page's body, preview and backing hash.
func (s *GORMStore) UpdatePageContent(ctx context.Context, id, content, hash string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Page{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":         content,
			"content_preview": models.Preview(content),
			"file_hash":       hash,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrPageNotFound
	}
	return nil
}

// ConvertUnsavedToSaved atomically promotes a draft: assigns the title,
// sets the backing path and hash, flips the type and clears the workspace
// binding. Fails with ErrDuplicatePage when the title is taken and
// ErrPageNotFound when the page is absent or not a draft.
func (s *GORMStore) ConvertUnsavedToSaved(ctx context.Context, id, title, filePath, hash string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page models.Page
		err := tx.Where("id = ? AND page_type = ?", id, models.PageTypeUnsaved).First(&page).Error
		if err != nil {
			return convertNotFoundError(err, models.ErrPageNotFound)
		}
		if err := s.checkTitleFree(ctx, tx, page.LibraryID, title, id); err != nil {
			return err
		}
		return tx.Model(&page).Updates(map[string]any{
			"title":        title,
			"page_type":    string(models.PageTypeSaved),
			"file_path":    filePath,
			"file_hash":    hash,
			"workspace_id": nil,
		}).Error
	})
}

// RenamePage assigns a new title to a saved or file page.
func (s *GORMStore) RenamePage(ctx context.Context, id, title string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var page models.Page
		if err := tx.Where("id = ?", id).First(&page).Error; err != nil {
			return convertNotFoundError(err, models.ErrPageNotFound)
		}
		if err := s.checkTitleFree(ctx, tx, page.LibraryID, title, id); err != nil {
			return err
		}
		return tx.Model(&page).Update("title", title).Error
	})
}

// UpdatePagePath points a page at a new backing file.
func (s *GORMStore) UpdatePagePath(ctx context.Context, id, filePath string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Page{}).
		Where("id = ?", id).
		Update("file_path", filePath)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrPageNotFound
	}
	return nil
}

// SoftDeletePage marks a page deleted, leaving its content intact.
func (s *GORMStore) SoftDeletePage(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Page{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrPageNotFound
	}
	return nil
}

// SoftDeletePagesForFile marks every page fronting a file as deleted.
// Zero fronting pages is fine.
func (s *GORMStore) SoftDeletePagesForFile(ctx context.Context, fileID string) error {
	return s.db.WithContext(ctx).
		Where("file_id = ?", fileID).
		Delete(&models.Page{}).Error
}

// PageOwnedBy retrieves a page only when its library belongs to the user.
func (s *GORMStore) PageOwnedBy(ctx context.Context, pageID, userID string) (*models.Page, error) {
	var page models.Page
	err := s.db.WithContext(ctx).
		Joins("JOIN libraries ON libraries.id = pages.library_id").
		Where("pages.id = ? AND libraries.user_id = ? AND libraries.deleted_at IS NULL", pageID, userID).
		First(&page).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrPageNotFound)
	}
	return &page, nil
}
