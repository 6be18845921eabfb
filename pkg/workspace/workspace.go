// Package workspace implements the ordered mixed-kind view engine:
// pages and files arranged in a single dense position space with
// per-item depth and flags.
package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

// Item is a membership edge joined with the referent's display summary.
type Item struct {
	ItemID        string    `json:"item_id"`
	Kind          string    `json:"kind"`
	Position      int       `json:"position"`
	Depth         int       `json:"depth"`
	IsInAIContext bool      `json:"is_in_ai_context"`
	IsCollapsed   bool      `json:"is_collapsed"`
	AddedAt       time.Time `json:"added_at"`

	// Page summary (kind == page)
	PageTitle   string `json:"page_title,omitempty"`
	PageType    string `json:"page_type,omitempty"`
	PagePreview string `json:"page_preview,omitempty"`

	// File summary (kind == file)
	FileName       string `json:"file_name,omitempty"`
	FileType       string `json:"file_type,omitempty"`
	FileTitle      string `json:"file_title,omitempty"`
	CoverImagePath string `json:"cover_image_path,omitempty"`
}

// FlagUpdate carries a field-level update for UpdateFlags. Nil fields are
// left untouched.
type FlagUpdate struct {
	Depth         *int
	IsInAIContext *bool
	IsCollapsed   *bool
}

// Service exposes the workspace operations with ownership enforcement.
// All position arithmetic happens inside the store's per-workspace
// critical section.
type Service struct {
	store *store.GORMStore
}

// NewService creates a workspace service over the metadata store.
func NewService(s *store.GORMStore) *Service {
	return &Service{store: s}
}

// Create inserts a workspace into a library the user owns.
func (s *Service) Create(ctx context.Context, userID, libraryID, title string) (*models.Workspace, error) {
	if _, err := s.store.LibraryOwnedBy(ctx, libraryID, userID); err != nil {
		return nil, err
	}
	ws := &models.Workspace{LibraryID: libraryID, Title: title}
	if _, err := s.store.CreateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// Get retrieves a workspace the user owns and stamps last access.
func (s *Service) Get(ctx context.Context, userID, workspaceID string) (*models.Workspace, error) {
	ws, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	_ = s.store.TouchWorkspace(ctx, workspaceID, time.Now())
	return ws, nil
}

// List returns the workspaces of a library the user owns.
func (s *Service) List(ctx context.Context, userID, libraryID string) ([]*models.Workspace, error) {
	if _, err := s.store.LibraryOwnedBy(ctx, libraryID, userID); err != nil {
		return nil, err
	}
	return s.store.ListWorkspaces(ctx, libraryID)
}

// Delete soft-deletes a workspace. Referenced pages and files survive;
// drafts bound to the workspace stay rows until titled or reconciled away.
func (s *Service) Delete(ctx context.Context, userID, workspaceID string) error {
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return err
	}
	return s.store.SoftDeleteWorkspace(ctx, workspaceID)
}

// SetFavorite flips the favorite flag on an owned workspace.
func (s *Service) SetFavorite(ctx context.Context, userID, workspaceID string, favorited bool) error {
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return err
	}
	return s.store.SetWorkspaceFavorite(ctx, workspaceID, favorited)
}

// AddItem inserts a page or file reference at pos (append when nil).
// The referent must belong to a library of the same user; cross-library
// references within one owner are allowed.
func (s *Service) AddItem(ctx context.Context, userID, workspaceID, itemID string, kind models.ItemKind, pos *int, depth int) (*models.WorkspaceItem, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid item kind %q", kind)
	}
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	if err := s.checkReferent(ctx, userID, itemID, kind); err != nil {
		return nil, err
	}
	if depth < 0 {
		depth = 0
	}
	return s.store.AddWorkspaceItem(ctx, workspaceID, itemID, kind, pos, depth)
}

// checkReferent verifies the referenced page or file belongs to the user.
func (s *Service) checkReferent(ctx context.Context, userID, itemID string, kind models.ItemKind) error {
	switch kind {
	case models.ItemKindPage:
		_, err := s.store.PageOwnedBy(ctx, itemID, userID)
		return err
	case models.ItemKindFile:
		_, err := s.store.FileOwnedBy(ctx, itemID, userID)
		return err
	}
	return fmt.Errorf("invalid item kind %q", kind)
}

// MoveItem relocates an item to newPos, clamped to the valid range, and
// optionally reassigns depth.
func (s *Service) MoveItem(ctx context.Context, userID, workspaceID, itemID string, kind models.ItemKind, newPos int, newDepth *int) (*models.WorkspaceItem, error) {
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.store.MoveWorkspaceItem(ctx, workspaceID, itemID, kind, newPos, newDepth)
}

// RemoveItem deletes a membership edge. Returns false when the item was
// not a member; that is not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, workspaceID, itemID string, kind models.ItemKind) (bool, error) {
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return false, err
	}
	return s.store.RemoveWorkspaceItem(ctx, workspaceID, itemID, kind)
}

// UpdateFlags applies a field-level update. The AI-context flag is
// meaningful for pages only and silently ignored for files.
func (s *Service) UpdateFlags(ctx context.Context, userID, workspaceID, itemID string, kind models.ItemKind, update FlagUpdate) (*models.WorkspaceItem, error) {
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.store.UpdateWorkspaceItemFlags(ctx, workspaceID, itemID, kind,
		update.Depth, update.IsInAIContext, update.IsCollapsed)
}

// ListItems yields the combined sequence in position order, each entry
// joined with the underlying page or file summary.
func (s *Service) ListItems(ctx context.Context, userID, workspaceID string) ([]Item, error) {
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	edges, err := s.store.ListWorkspaceItems(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(edges))
	for _, edge := range edges {
		item := Item{
			ItemID:        edge.ItemID,
			Kind:          edge.ItemKind,
			Position:      edge.Position,
			Depth:         edge.Depth,
			IsInAIContext: edge.IsInAIContext,
			IsCollapsed:   edge.IsCollapsed,
			AddedAt:       edge.AddedAt,
		}
		switch models.ItemKind(edge.ItemKind) {
		case models.ItemKindPage:
			if page, err := s.store.GetPage(ctx, edge.ItemID); err == nil {
				item.PageTitle = page.TitleOrEmpty()
				item.PageType = page.PageType
				item.PagePreview = page.ContentPreview
			}
		case models.ItemKindFile:
			if file, err := s.store.GetFile(ctx, edge.ItemID); err == nil {
				item.FileName = file.FileName
				item.FileType = file.FileType
				item.FileTitle = file.Title
				item.CoverImagePath = file.CoverImagePath
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// AIContextItems returns the workspace's pages flagged for AI context,
// in position order.
func (s *Service) AIContextItems(ctx context.Context, userID, workspaceID string) ([]Item, error) {
	items, err := s.ListItems(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	selected := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Kind == string(models.ItemKindPage) && item.IsInAIContext {
			selected = append(selected, item)
		}
	}
	return selected, nil
}

// Duplicate creates a new workspace in the same library and copies every
// membership edge verbatim. Pages and files are not cloned.
func (s *Service) Duplicate(ctx context.Context, userID, workspaceID, newTitle string) (*models.Workspace, error) {
	if _, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.store.DuplicateWorkspace(ctx, workspaceID, newTitle)
}
