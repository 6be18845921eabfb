// Package pages implements the page lifecycle: saved pages backed by
// markdown files, workspace-bound drafts, and file pages fronting
// uploaded documents. Every mutation keeps the backing file, the
// metadata row and the link graph in step.
package pages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/links"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

// Service coordinates page mutations across the metadata store, the
// content tree and the link graph.
type Service struct {
	store *store.GORMStore
	links *links.Service
}

// NewService creates a page service.
func NewService(s *store.GORMStore, l *links.Service) *Service {
	return &Service{store: s, links: l}
}

// backingName derives the on-disk basename for a titled page. Characters
// that are path separators or otherwise unsafe on common filesystems are
// folded to dashes.
func backingName(title string) string {
	name := strings.TrimSpace(title)
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '-'
		}
		return r
	}, name)
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "untitled"
	}
	return name + ".md"
}

// CreateSaved creates a titled page with a backing markdown file under
// the library's pages/ directory. Broken links elsewhere in the library
// that reference the new title heal immediately.
func (s *Service) CreateSaved(ctx context.Context, userID, libraryID, title, content string) (*models.Page, error) {
	lib, err := s.store.LibraryOwnedBy(ctx, libraryID, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("page title is required")
	}

	// Probe before touching the disk so a duplicate title never clobbers
	// the existing page's backing file.
	if _, err := s.store.GetPageByTitle(ctx, libraryID, title); err == nil {
		return nil, models.ErrDuplicatePage
	}

	path := filepath.Join(contentstore.PagesPath(lib.FolderPath), backingName(title))
	if err := contentstore.WriteFileAtomic(path, []byte(content)); err != nil {
		return nil, err
	}

	page := &models.Page{
		LibraryID:      libraryID,
		Title:          &title,
		PageType:       string(models.PageTypeSaved),
		Content:        content,
		ContentPreview: models.Preview(content),
		FilePath:       path,
		FileHash:       contentstore.HashBytes([]byte(content)),
	}
	if _, err := s.store.CreatePage(ctx, page); err != nil {
		os.Remove(path)
		return nil, err
	}

	if _, err := s.links.Reparse(ctx, page, content); err != nil {
		return nil, err
	}
	healed, err := s.links.Heal(ctx, libraryID, title, page.ID)
	if err != nil {
		return nil, err
	}
	logger.Info("page created",
		"library", libraryID, "page", page.ID, "title", title, "links_healed", healed)
	return page, nil
}

// CreateDraft creates an untitled unsaved page bound to a workspace and
// appends it to the workspace sequence. Drafts have no backing file.
func (s *Service) CreateDraft(ctx context.Context, userID, workspaceID string) (*models.Page, error) {
	ws, err := s.store.WorkspaceOwnedBy(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	page := &models.Page{
		LibraryID:   ws.LibraryID,
		PageType:    string(models.PageTypeUnsaved),
		WorkspaceID: &ws.ID,
	}
	if _, err := s.store.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	if _, err := s.store.AddWorkspaceItem(ctx, ws.ID, page.ID, models.ItemKindPage, nil, 0); err != nil {
		return nil, err
	}
	return page, nil
}

// CreateFilePage creates a page fronting an uploaded file, so the file
// participates in workspaces and search like any page.
func (s *Service) CreateFilePage(ctx context.Context, libraryID, fileID, title string) (*models.Page, error) {
	page := &models.Page{
		LibraryID: libraryID,
		Title:     &title,
		PageType:  string(models.PageTypeFile),
		FileID:    &fileID,
	}
	if _, err := s.store.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

// SaveDraft promotes an unsaved page: assigns the title, writes the
// backing file, flips the type and releases the workspace binding. The
// workspace membership edge survives so the page stays in place.
func (s *Service) SaveDraft(ctx context.Context, userID, pageID, title string) (*models.Page, error) {
	page, err := s.store.PageOwnedBy(ctx, pageID, userID)
	if err != nil {
		return nil, err
	}
	if page.PageType != string(models.PageTypeUnsaved) {
		return nil, fmt.Errorf("page %s is not a draft", pageID)
	}
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("page title is required")
	}
	lib, err := s.store.GetLibrary(ctx, page.LibraryID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetPageByTitle(ctx, page.LibraryID, title); err == nil {
		return nil, models.ErrDuplicatePage
	}

	path := filepath.Join(contentstore.PagesPath(lib.FolderPath), backingName(title))
	if err := contentstore.WriteFileAtomic(path, []byte(page.Content)); err != nil {
		return nil, err
	}
	hash := contentstore.HashBytes([]byte(page.Content))
	if err := s.store.ConvertUnsavedToSaved(ctx, pageID, title, path, hash); err != nil {
		os.Remove(path)
		return nil, err
	}

	if _, err := s.links.Heal(ctx, page.LibraryID, title, pageID); err != nil {
		return nil, err
	}
	logger.Info("draft saved", "page", pageID, "title", title)
	return s.store.GetPage(ctx, pageID)
}

// UpdateContent replaces a page's body, rewrites the backing file for
// saved pages, and reparses the link graph.
func (s *Service) UpdateContent(ctx context.Context, userID, pageID, content string) (*links.Report, error) {
	page, err := s.store.PageOwnedBy(ctx, pageID, userID)
	if err != nil {
		return nil, err
	}
	if page.PageType == string(models.PageTypeFile) {
		return nil, fmt.Errorf("file pages have no editable body")
	}

	hash := ""
	if page.FilePath != "" {
		if err := contentstore.WriteFileAtomic(page.FilePath, []byte(content)); err != nil {
			return nil, err
		}
		hash = contentstore.HashBytes([]byte(content))
	}
	if err := s.store.UpdatePageContent(ctx, pageID, content, hash); err != nil {
		return nil, err
	}
	return s.links.Reparse(ctx, page, content)
}

// Rename retitles a saved page, moves its backing file to match and
// heals broken links that reference the new title. Inbound links keep
// pointing at the page; their display text goes stale until the sources
// are next edited.
func (s *Service) Rename(ctx context.Context, userID, pageID, newTitle string) (*models.Page, error) {
	page, err := s.store.PageOwnedBy(ctx, pageID, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(newTitle) == "" {
		return nil, fmt.Errorf("page title is required")
	}
	if err := s.store.RenamePage(ctx, pageID, newTitle); err != nil {
		return nil, err
	}

	if page.FilePath != "" {
		newPath := filepath.Join(filepath.Dir(page.FilePath), backingName(newTitle))
		if newPath != page.FilePath {
			if err := os.Rename(page.FilePath, newPath); err != nil {
				return nil, fmt.Errorf("%w: %s: %v", contentstore.ErrStorage, page.FilePath, err)
			}
			if err := s.store.UpdatePagePath(ctx, pageID, newPath); err != nil {
				return nil, err
			}
		}
	}

	if _, err := s.links.Heal(ctx, page.LibraryID, newTitle, pageID); err != nil {
		return nil, err
	}
	return s.store.GetPage(ctx, pageID)
}

// Delete soft-deletes a page, removes its backing file and breaks
// inbound links. The edges persist as broken links and heal again if a
// page with the same title reappears.
func (s *Service) Delete(ctx context.Context, userID, pageID string) error {
	page, err := s.store.PageOwnedBy(ctx, pageID, userID)
	if err != nil {
		return err
	}
	if err := s.store.SoftDeletePage(ctx, pageID); err != nil {
		return err
	}
	if page.FilePath != "" {
		if err := os.Remove(page.FilePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("backing file removal failed", "page", pageID, "path", page.FilePath, "error", err)
		}
	}
	if err := s.store.ReplaceLinks(ctx, pageID, nil); err != nil {
		return err
	}
	broken, err := s.store.BreakLinksTo(ctx, pageID)
	if err != nil {
		return err
	}
	logger.Info("page deleted", "page", pageID, "links_broken", broken)
	return nil
}

// Get retrieves an owned page.
func (s *Service) Get(ctx context.Context, userID, pageID string) (*models.Page, error) {
	return s.store.PageOwnedBy(ctx, pageID, userID)
}

// List returns the live pages of an owned library.
func (s *Service) List(ctx context.Context, userID, libraryID string) ([]*models.Page, error) {
	if _, err := s.store.LibraryOwnedBy(ctx, libraryID, userID); err != nil {
		return nil, err
	}
	return s.store.ListPages(ctx, libraryID)
}
