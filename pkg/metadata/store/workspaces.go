package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// GetWorkspace retrieves a workspace by ID.
func (s *GORMStore) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	return getByField[models.Workspace](s.db, ctx, "id", id, models.ErrWorkspaceNotFound)
}

// ListWorkspaces returns all live workspaces of a library, most recently
// accessed first.
func (s *GORMStore) ListWorkspaces(ctx context.Context, libraryID string) ([]*models.Workspace, error) {
	return listWhere[models.Workspace](s.db, ctx,
		"last_accessed_at DESC, created_at DESC", "library_id = ?", libraryID)
}

// CreateWorkspace inserts a workspace.
func (s *GORMStore) CreateWorkspace(ctx context.Context, ws *models.Workspace) (string, error) {
	return createWithID(s.db, ctx, ws,
		func(w *models.Workspace, id string) { w.ID = id }, ws.ID, models.ErrDuplicateWorkspace)
}

// SoftDeleteWorkspace marks a workspace deleted and drops its membership
// edges. The referenced pages and files are left intact.
func (s *GORMStore) SoftDeleteWorkspace(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Workspace{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrWorkspaceNotFound
		}
		return tx.Where("workspace_id = ?", id).Delete(&models.WorkspaceItem{}).Error
	})
}

// SetWorkspaceFavorite flips the favorite flag.
func (s *GORMStore) SetWorkspaceFavorite(ctx context.Context, id string, favorited bool) error {
	result := s.db.WithContext(ctx).
		Model(&models.Workspace{}).
		Where("id = ?", id).
		Update("is_favorited", favorited)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrWorkspaceNotFound
	}
	return nil
}

// TouchWorkspace stamps last_accessed_at.
func (s *GORMStore) TouchWorkspace(ctx context.Context, id string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Workspace{}).
		Where("id = ?", id).
		Update("last_accessed_at", at).Error
}

// WorkspaceOwnedBy retrieves a workspace only when its library belongs to
// the user.
func (s *GORMStore) WorkspaceOwnedBy(ctx context.Context, workspaceID, userID string) (*models.Workspace, error) {
	var ws models.Workspace
	err := s.db.WithContext(ctx).
		Joins("JOIN libraries ON libraries.id = workspaces.library_id").
		Where("workspaces.id = ? AND libraries.user_id = ? AND libraries.deleted_at IS NULL", workspaceID, userID).
		First(&ws).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrWorkspaceNotFound)
	}
	return &ws, nil
}

// ============================================================================
// Workspace item position arithmetic
// ============================================================================
//
// Positions within a workspace are a single dense 0-based run shared by
// pages and files. Every mutation runs inside a transaction that first
// takes a row lock on the workspace row, so concurrent inserts into the
// same workspace serialize and the second one observes the shifted state.
// SQLite ignores FOR UPDATE but serializes writers at the database level,
// which gives the same per-workspace ordering guarantee.

// lockWorkspace loads the workspace row under FOR UPDATE inside tx.
func lockWorkspace(tx *gorm.DB, workspaceID string) (*models.Workspace, error) {
	var ws models.Workspace
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", workspaceID).
		First(&ws).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrWorkspaceNotFound)
	}
	return &ws, nil
}

// itemCount returns the number of items in the workspace inside tx.
func itemCount(tx *gorm.DB, workspaceID string) (int, error) {
	var n int64
	err := tx.Model(&models.WorkspaceItem{}).
		Where("workspace_id = ?", workspaceID).
		Count(&n).Error
	return int(n), err
}

// shiftUp makes room at position pos by shifting [pos, n) up by one.
func shiftUp(tx *gorm.DB, workspaceID string, pos int) error {
	return tx.Model(&models.WorkspaceItem{}).
		Where("workspace_id = ? AND position >= ?", workspaceID, pos).
		Update("position", gorm.Expr("position + 1")).Error
}

// shiftDown closes the gap left at position pos by shifting (pos, n) down.
func shiftDown(tx *gorm.DB, workspaceID string, pos int) error {
	return tx.Model(&models.WorkspaceItem{}).
		Where("workspace_id = ? AND position > ?", workspaceID, pos).
		Update("position", gorm.Expr("position - 1")).Error
}

// AddWorkspaceItem inserts an item at pos, or appends when pos is nil or
// past the end. Returns ErrItemAlreadyPresent when the (item, kind) pair
// is already a member.
func (s *GORMStore) AddWorkspaceItem(ctx context.Context, workspaceID, itemID string, kind models.ItemKind, pos *int, depth int) (*models.WorkspaceItem, error) {
	var created *models.WorkspaceItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockWorkspace(tx, workspaceID); err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.WorkspaceItem{}).
			Where("workspace_id = ? AND item_id = ? AND item_kind = ?", workspaceID, itemID, string(kind)).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return models.ErrItemAlreadyPresent
		}

		n, err := itemCount(tx, workspaceID)
		if err != nil {
			return err
		}

		position := n
		if pos != nil && *pos < n {
			if *pos < 0 {
				position = 0
			} else {
				position = *pos
			}
			if err := shiftUp(tx, workspaceID, position); err != nil {
				return err
			}
		}

		item := &models.WorkspaceItem{
			ID:          uuid.New().String(),
			WorkspaceID: workspaceID,
			ItemID:      itemID,
			ItemKind:    string(kind),
			Position:    position,
			Depth:       depth,
			AddedAt:     time.Now(),
		}
		if err := tx.Create(item).Error; err != nil {
			if isUniqueConstraintError(err) {
				return models.ErrItemAlreadyPresent
			}
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// MoveWorkspaceItem relocates an item to newPos (clamped to the valid
// range) and optionally assigns a new depth. Moving to the current
// position with no depth change is a no-op.
func (s *GORMStore) MoveWorkspaceItem(ctx context.Context, workspaceID, itemID string, kind models.ItemKind, newPos int, newDepth *int) (*models.WorkspaceItem, error) {
	var moved *models.WorkspaceItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockWorkspace(tx, workspaceID); err != nil {
			return err
		}

		var item models.WorkspaceItem
		err := tx.Where("workspace_id = ? AND item_id = ? AND item_kind = ?",
			workspaceID, itemID, string(kind)).First(&item).Error
		if err != nil {
			return convertNotFoundError(err, models.ErrItemNotFound)
		}

		n, err := itemCount(tx, workspaceID)
		if err != nil {
			return err
		}

		target := newPos
		if target < 0 {
			target = 0
		}
		if target > n-1 {
			target = n - 1
		}

		if target != item.Position {
			if err := shiftDown(tx, workspaceID, item.Position); err != nil {
				return err
			}
			if err := shiftUp(tx, workspaceID, target); err != nil {
				return err
			}
			item.Position = target
		}
		if newDepth != nil && *newDepth >= 0 {
			item.Depth = *newDepth
		}
		if err := tx.Model(&models.WorkspaceItem{}).
			Where("id = ?", item.ID).
			Updates(map[string]any{"position": item.Position, "depth": item.Depth}).Error; err != nil {
			return err
		}
		moved = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// RemoveWorkspaceItem deletes a membership edge and closes the position
// gap. Returns false without error when the item was not a member.
func (s *GORMStore) RemoveWorkspaceItem(ctx context.Context, workspaceID, itemID string, kind models.ItemKind) (bool, error) {
	removed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockWorkspace(tx, workspaceID); err != nil {
			return err
		}

		var item models.WorkspaceItem
		err := tx.Where("workspace_id = ? AND item_id = ? AND item_kind = ?",
			workspaceID, itemID, string(kind)).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		if err := shiftDown(tx, workspaceID, item.Position); err != nil {
			return err
		}
		removed = true
		return nil
	})
	return removed, err
}

// UpdateWorkspaceItemFlags performs a field-level update of depth and the
// boolean flags. isInAIContext is ignored for files.
func (s *GORMStore) UpdateWorkspaceItemFlags(ctx context.Context, workspaceID, itemID string, kind models.ItemKind, depth *int, inAIContext, collapsed *bool) (*models.WorkspaceItem, error) {
	var updated *models.WorkspaceItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.WorkspaceItem
		err := tx.Where("workspace_id = ? AND item_id = ? AND item_kind = ?",
			workspaceID, itemID, string(kind)).First(&item).Error
		if err != nil {
			return convertNotFoundError(err, models.ErrItemNotFound)
		}

		fields := map[string]any{}
		if depth != nil && *depth >= 0 {
			fields["depth"] = *depth
		}
		if inAIContext != nil && kind == models.ItemKindPage {
			fields["is_in_ai_context"] = *inAIContext
		}
		if collapsed != nil {
			fields["is_collapsed"] = *collapsed
		}
		if len(fields) > 0 {
			if err := tx.Model(&models.WorkspaceItem{}).
				Where("id = ?", item.ID).Updates(fields).Error; err != nil {
				return err
			}
		}
		err = tx.Where("id = ?", item.ID).First(&item).Error
		if err != nil {
			return err
		}
		updated = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ListWorkspaceItems returns the membership edges in position order.
func (s *GORMStore) ListWorkspaceItems(ctx context.Context, workspaceID string) ([]*models.WorkspaceItem, error) {
	return listWhere[models.WorkspaceItem](s.db, ctx, "position ASC",
		"workspace_id = ?", workspaceID)
}

// DuplicateWorkspace creates a new workspace in the same library and
// copies every membership edge verbatim (positions, depths, flags).
// The referenced pages and files are not cloned.
func (s *GORMStore) DuplicateWorkspace(ctx context.Context, workspaceID, newTitle string) (*models.Workspace, error) {
	var dup *models.Workspace
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		src, err := lockWorkspace(tx, workspaceID)
		if err != nil {
			return err
		}

		clone := &models.Workspace{
			ID:        uuid.New().String(),
			LibraryID: src.LibraryID,
			Title:     newTitle,
		}
		if err := tx.Create(clone).Error; err != nil {
			return err
		}

		var items []models.WorkspaceItem
		if err := tx.Where("workspace_id = ?", workspaceID).
			Order("position ASC").Find(&items).Error; err != nil {
			return err
		}
		for i := range items {
			edge := items[i]
			edge.ID = uuid.New().String()
			edge.WorkspaceID = clone.ID
			edge.AddedAt = time.Now()
			if err := tx.Create(&edge).Error; err != nil {
				return err
			}
		}
		dup = clone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dup, nil
}
