// Package sync keeps the metadata store and the on-disk content tree in
// step: a reconciler that diffs a whole library against the database,
// and a filesystem watcher that applies single-path reconciliation as
// edits land.
package sync

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/links"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/metrics"
	"github.com/loreleaf/loreleaf/pkg/processor"
)

// Detail reports what happened to one item during reconciliation.
type Detail struct {
	Path   string `json:"path"`
	Action string `json:"action"` // created, updated, deleted, no_change, error
	Err    string `json:"error,omitempty"`
}

// Summary is the outcome of one reconciliation pass.
type Summary struct {
	TotalPages int      `json:"total_pages"`
	Updated    int      `json:"updated"`
	NoChange   int      `json:"no_change"`
	Errors     int      `json:"errors"`
	Details    []Detail `json:"details"`
}

func (s *Summary) record(path, action string, err error) {
	d := Detail{Path: path, Action: action}
	if err != nil {
		d.Action = "error"
		d.Err = err.Error()
		s.Errors++
	}
	s.Details = append(s.Details, d)
}

// Reconciler diffs a library's on-disk tree against its database rows.
// Item failures are isolated: each is reported in Details and the pass
// continues.
type Reconciler struct {
	store    *store.GORMStore
	registry *processor.Registry
	links    *links.Service
	metrics  *metrics.Metrics
}

// NewReconciler creates a reconciler.
func NewReconciler(s *store.GORMStore, registry *processor.Registry, l *links.Service) *Reconciler {
	return &Reconciler{store: s, registry: registry, links: l}
}

// WithMetrics attaches a metrics collector. Nil disables collection.
func (r *Reconciler) WithMetrics(m *metrics.Metrics) *Reconciler {
	r.metrics = m
	return r
}

// pageKey is how on-disk pages and database rows are matched: the
// backing basename with the extension stripped, case-folded.
func pageKey(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))
}

// ForceSync runs a full reconciliation pass over one library. The pass
// is idempotent: a second run over an unchanged tree reports no changes.
func (r *Reconciler) ForceSync(ctx context.Context, lib *models.Library) (*Summary, error) {
	started := time.Now()
	summary := &Summary{}

	entries, err := contentstore.ScanTree(lib.FolderPath)
	if err != nil {
		return nil, err
	}

	dbPages, err := r.store.ListPagesWithBacking(ctx, lib.ID)
	if err != nil {
		return nil, err
	}
	dbFiles, err := r.store.ListFiles(ctx, lib.ID)
	if err != nil {
		return nil, err
	}

	pagesByKey := make(map[string]*models.Page, len(dbPages))
	for _, p := range dbPages {
		pagesByKey[pageKey(filepath.Base(p.FilePath))] = p
	}
	filesByName := make(map[string]*models.File, len(dbFiles))
	for _, f := range dbFiles {
		filesByName[f.FileName] = f
	}

	seenPages := make(map[string]bool)
	seenFiles := make(map[string]bool)

	for _, entry := range entries {
		switch entry.Category {
		case contentstore.CategoryPage:
			summary.TotalPages++
			key := pageKey(entry.Name)
			seenPages[key] = true
			r.syncPage(ctx, lib, entry, pagesByKey[key], summary)
		case contentstore.CategoryFile:
			seenFiles[entry.Name] = true
			r.syncFile(ctx, lib, entry, filesByName[entry.Name], summary)
		}
	}

	// rows whose backing file vanished
	for key, page := range pagesByKey {
		if seenPages[key] {
			continue
		}
		if err := r.store.SoftDeletePage(ctx, page.ID); err != nil {
			summary.record(page.FilePath, "", err)
			continue
		}
		if _, err := r.store.BreakLinksTo(ctx, page.ID); err != nil {
			summary.record(page.FilePath, "", err)
			continue
		}
		summary.Updated++
		summary.record(page.FilePath, "deleted", nil)
	}
	for name, file := range filesByName {
		if seenFiles[name] {
			continue
		}
		if err := r.store.SoftDeleteFile(ctx, file.ID); err != nil {
			summary.record(file.Path, "", err)
			continue
		}
		summary.Updated++
		summary.record(file.Path, "deleted", nil)
	}

	result := "ok"
	if summary.Errors > 0 {
		result = "error"
	}
	r.metrics.RecordSyncRun("forced", result, time.Since(started).Seconds())
	for _, d := range summary.Details {
		r.metrics.RecordSyncItem(d.Action)
	}

	logger.Info("library reconciled",
		"library", lib.ID, "total_pages", summary.TotalPages,
		"updated", summary.Updated, "no_change", summary.NoChange,
		"errors", summary.Errors)
	return summary, nil
}

// syncPage applies steps 3 and 4 for one backing file under pages/.
func (r *Reconciler) syncPage(ctx context.Context, lib *models.Library, entry contentstore.ScanEntry, row *models.Page, summary *Summary) {
	if row != nil && row.FileHash == entry.Hash {
		summary.NoChange++
		summary.record(entry.Path, "no_change", nil)
		return
	}

	raw, err := os.ReadFile(entry.Path)
	if err != nil {
		summary.record(entry.Path, "", err)
		return
	}
	content, err := processor.DecodeText(raw)
	if err != nil {
		summary.record(entry.Path, "", err)
		return
	}

	if row == nil {
		if err := r.checkQuota(ctx, lib.UserID, entry.Size); err != nil {
			summary.record(entry.Path, "", err)
			return
		}
		title := strings.TrimSuffix(entry.Name, filepath.Ext(entry.Name))
		page := &models.Page{
			LibraryID:      lib.ID,
			Title:          &title,
			PageType:       string(models.PageTypeSaved),
			Content:        content,
			ContentPreview: models.Preview(content),
			FilePath:       entry.Path,
			FileHash:       entry.Hash,
		}
		if _, err := r.store.CreatePage(ctx, page); err != nil {
			summary.record(entry.Path, "", err)
			return
		}
		if _, err := r.links.Reparse(ctx, page, content); err != nil {
			summary.record(entry.Path, "", err)
			return
		}
		if _, err := r.links.Heal(ctx, lib.ID, title, page.ID); err != nil {
			summary.record(entry.Path, "", err)
			return
		}
		summary.Updated++
		summary.record(entry.Path, "created", nil)
		return
	}

	if err := r.store.UpdatePageContent(ctx, row.ID, content, entry.Hash); err != nil {
		summary.record(entry.Path, "", err)
		return
	}
	if _, err := r.links.Reparse(ctx, row, content); err != nil {
		summary.record(entry.Path, "", err)
		return
	}
	summary.Updated++
	summary.record(entry.Path, "updated", nil)
}

// syncFile applies steps 3 and 4 for one upload under files/.
func (r *Reconciler) syncFile(ctx context.Context, lib *models.Library, entry contentstore.ScanEntry, row *models.File, summary *Summary) {
	if row != nil && row.FileHash == entry.Hash {
		r.backfillCover(ctx, row, summary)
		summary.NoChange++
		summary.record(entry.Path, "no_change", nil)
		return
	}

	fileType, err := models.FileTypeForExtension(filepath.Ext(entry.Name))
	if err != nil {
		summary.record(entry.Path, "", err)
		return
	}

	if row == nil {
		row = &models.File{
			LibraryID:        lib.ID,
			FileName:         entry.Name,
			FileType:         string(fileType),
			Size:             entry.Size,
			Path:             entry.Path,
			FileHash:         entry.Hash,
			ProcessingStatus: string(models.ProcessingPending),
		}
		if err := r.checkQuota(ctx, lib.UserID, entry.Size); err != nil {
			// the bytes already sit on disk; keep the row but record
			// the quota failure on it
			row.ProcessingStatus = string(models.ProcessingFailed)
			row.ProcessingError = err.Error()
			if _, cerr := r.store.CreateFile(ctx, row); cerr != nil {
				summary.record(entry.Path, "", cerr)
				return
			}
			summary.record(entry.Path, "", err)
			return
		}
		if _, err := r.store.CreateFile(ctx, row); err != nil {
			summary.record(entry.Path, "", err)
			return
		}
		r.runProcessor(ctx, row)
		summary.Updated++
		summary.record(entry.Path, "created", nil)
		return
	}

	row.Size = entry.Size
	row.FileHash = entry.Hash
	r.runProcessor(ctx, row)
	summary.Updated++
	summary.record(entry.Path, "updated", nil)
}

func (r *Reconciler) runProcessor(ctx context.Context, file *models.File) {
	result, err := r.registry.Process(ctx, file.Path)
	if err != nil {
		file.ProcessingStatus = string(models.ProcessingFailed)
		file.ProcessingError = err.Error()
	} else {
		file.Title = result.Title
		file.ContentPreview = result.Preview
		file.CoverImagePath = result.CoverPath
		if result.Status == processor.StatusFailed {
			file.ProcessingStatus = string(models.ProcessingFailed)
			file.ProcessingError = result.Err
		} else {
			file.ProcessingStatus = string(models.ProcessingComplete)
			file.ProcessingError = ""
		}
		if v, ok := result.Metadata["creator"].(string); ok {
			file.Author = v
		} else if v, ok := result.Metadata["author"].(string); ok {
			file.Author = v
		}
		if v, ok := result.Metadata["description"].(string); ok {
			file.Description = v
		}
		if v, ok := result.Metadata["page_count"].(int); ok {
			file.PDFPageCount = v
		}
		if v, ok := result.Metadata["chapter_count"].(int); ok {
			file.EpubChapterCount = v
		}
		if v, ok := result.Metadata["width"].(int); ok {
			file.ImageWidth = v
		}
		if v, ok := result.Metadata["height"].(int); ok {
			file.ImageHeight = v
		}
	}
	r.metrics.RecordProcessorRun(file.FileType, file.ProcessingStatus)
	if err := r.store.UpdateFileMetadata(ctx, file); err != nil {
		logger.Error("persisting file metadata failed", "file", file.ID, "error", err)
	}
}

// backfillCover probes the covers directory for rows that predate cover
// extraction and fills in the column when the artifact exists.
func (r *Reconciler) backfillCover(ctx context.Context, file *models.File, summary *Summary) {
	if file.CoverImagePath != "" || file.FileType != string(models.FileTypeEPUB) {
		return
	}
	base := strings.TrimSuffix(file.FileName, filepath.Ext(file.FileName))
	coversDir := filepath.Join(filepath.Dir(file.Path), "covers")
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif"} {
		candidate := filepath.Join(coversDir, base+"_cover"+ext)
		if _, err := os.Stat(candidate); err == nil {
			file.CoverImagePath = candidate
			if err := r.store.UpdateFileMetadata(ctx, file); err != nil {
				summary.record(candidate, "", err)
			}
			return
		}
	}
}

func (r *Reconciler) checkQuota(ctx context.Context, userID string, incoming int64) error {
	user, err := r.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	used, err := r.store.StorageUsed(ctx, userID)
	if err != nil {
		return err
	}
	if used+incoming > user.StorageQuota {
		return models.ErrQuotaExceeded
	}
	return nil
}

// SyncPath reconciles a single path inside a library, as driven by the
// watcher. removed reports whether the path vanished.
func (r *Reconciler) SyncPath(ctx context.Context, lib *models.Library, path string, removed bool) error {
	summary := &Summary{}
	rel, err := filepath.Rel(lib.FolderPath, path)
	if err != nil {
		return err
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return nil
	}

	name := filepath.Base(path)
	switch parts[0] {
	case "pages":
		row, err := r.store.GetPageByTitle(ctx, lib.ID, strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil && !errors.Is(err, models.ErrPageNotFound) {
			return err
		}
		if removed {
			if row == nil {
				return nil
			}
			if err := r.store.SoftDeletePage(ctx, row.ID); err != nil {
				return err
			}
			_, err := r.store.BreakLinksTo(ctx, row.ID)
			return err
		}
		entry, err := statEntry(path, contentstore.CategoryPage)
		if err != nil {
			return err
		}
		r.syncPage(ctx, lib, *entry, row, summary)
	case "files":
		if len(parts) > 2 {
			// covers/ artifacts are derived, never synced
			return nil
		}
		row, err := r.store.GetFileByName(ctx, lib.ID, name)
		if err != nil && !errors.Is(err, models.ErrFileNotFound) {
			return err
		}
		if removed {
			if row == nil {
				return nil
			}
			return r.store.SoftDeleteFile(ctx, row.ID)
		}
		entry, err := statEntry(path, contentstore.CategoryFile)
		if err != nil {
			return err
		}
		r.syncFile(ctx, lib, *entry, row, summary)
	}

	if summary.Errors > 0 {
		logger.Warn("path reconciliation reported errors", "path", path, "details", summary.Details)
	}
	return nil
}

func statEntry(path string, category contentstore.Category) (*contentstore.ScanEntry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	hash, err := contentstore.HashFile(path)
	if err != nil {
		return nil, err
	}
	return &contentstore.ScanEntry{
		Name:     filepath.Base(path),
		Path:     path,
		Category: category,
		Size:     info.Size(),
		Hash:     hash,
		ModTime:  info.ModTime(),
	}, nil
}
