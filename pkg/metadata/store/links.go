package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// ReplaceLinks atomically swaps the set of edges sourced at a page for
// the freshly parsed set. Link parsing always replaces wholesale so the
// edge set mirrors the current body exactly.
func (s *GORMStore) ReplaceLinks(ctx context.Context, sourcePageID string, links []*models.PageLink) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_page_id = ?", sourcePageID).
			Delete(&models.PageLink{}).Error; err != nil {
			return err
		}
		for _, link := range links {
			link.SourcePageID = sourcePageID
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ForwardLinks returns the resolved edges sourced at a page in occurrence
// order.
func (s *GORMStore) ForwardLinks(ctx context.Context, pageID string) ([]*models.PageLink, error) {
	return listWhere[models.PageLink](s.db, ctx, "position ASC",
		"source_page_id = ? AND target_page_id IS NOT NULL", pageID)
}

// AllLinks returns every edge sourced at a page, broken ones included,
// in occurrence order.
func (s *GORMStore) AllLinks(ctx context.Context, pageID string) ([]*models.PageLink, error) {
	return listWhere[models.PageLink](s.db, ctx, "position ASC",
		"source_page_id = ?", pageID)
}

// Backlinks returns edges whose target is this page.
func (s *GORMStore) Backlinks(ctx context.Context, pageID string) ([]*models.PageLink, error) {
	return listWhere[models.PageLink](s.db, ctx, "created_at ASC",
		"target_page_id = ?", pageID)
}

// BreakLinksTo nulls the target of every edge pointing at a page. Called
// on page deletion; the edges stay as broken links that can heal again.
func (s *GORMStore) BreakLinksTo(ctx context.Context, pageID string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&models.PageLink{}).
		Where("target_page_id = ?", pageID).
		Update("target_page_id", nil)
	return result.RowsAffected, result.Error
}

// ResolveBrokenLinks repoints broken edges whose text matches the given
// title (case-insensitive) at the target page. Called when a page is
// created or renamed so earlier references heal.
func (s *GORMStore) ResolveBrokenLinks(ctx context.Context, libraryID, title, targetPageID string) (int64, error) {
	result := s.db.WithContext(ctx).Exec(`
		UPDATE page_links SET target_page_id = ?
		WHERE target_page_id IS NULL
		  AND LOWER(TRIM(link_text)) = LOWER(TRIM(?))
		  AND source_page_id IN (SELECT id FROM pages WHERE library_id = ?)`,
		targetPageID, title, libraryID)
	return result.RowsAffected, result.Error
}
