package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/metrics"
	"github.com/loreleaf/loreleaf/pkg/processor"
)

// Upload limits. MaxBatchFiles applies to one multipart request.
const (
	MaxUploadSize = 100 << 20
	MaxBatchFiles = 10
)

// ErrFileTooLarge rejects a single upload over MaxUploadSize.
var ErrFileTooLarge = fmt.Errorf("file exceeds the %d MB upload limit", MaxUploadSize>>20)

// DuplicateMode selects what happens when the target filename is taken.
type DuplicateMode string

const (
	// DuplicateSkip leaves the existing file untouched.
	DuplicateSkip DuplicateMode = "skip"
	// DuplicateReplace overwrites the existing file's bytes and reprocesses.
	DuplicateReplace DuplicateMode = "replace"
	// DuplicateRename stores the upload under the first free name_<n>.ext.
	DuplicateRename DuplicateMode = "rename"
)

// IsValid checks if the mode is one of the known variants.
func (m DuplicateMode) IsValid() bool {
	return m == DuplicateSkip || m == DuplicateReplace || m == DuplicateRename
}

// UploadResult reports the outcome of one upload.
type UploadResult struct {
	File    *models.File `json:"file,omitempty"`
	Page    *models.Page `json:"page,omitempty"`
	Skipped bool         `json:"skipped"`
}

// Uploader stores uploaded documents, runs metadata extraction and
// fronts each file with a page.
type Uploader struct {
	store    *store.GORMStore
	pages    *Service
	registry *processor.Registry
	metrics  *metrics.Metrics
}

// NewUploader creates an upload service.
func NewUploader(s *store.GORMStore, pages *Service, registry *processor.Registry) *Uploader {
	return &Uploader{store: s, pages: pages, registry: registry}
}

// WithMetrics attaches a metrics collector. Nil disables collection.
func (u *Uploader) WithMetrics(m *metrics.Metrics) *Uploader {
	u.metrics = m
	return u
}

// Upload stores one document in a library the user owns. The bytes land
// through a temp file and atomic rename; the quota check happens before
// any disk write. Extraction failure is preserved on the row, never
// surfaced as an upload error.
func (u *Uploader) Upload(ctx context.Context, userID, libraryID, fileName string, r io.Reader, size int64, mode DuplicateMode) (*UploadResult, error) {
	lib, err := u.store.LibraryOwnedBy(ctx, libraryID, userID)
	if err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("invalid duplicate mode %q", mode)
	}
	fileName = filepath.Base(strings.TrimSpace(fileName))
	fileType, err := models.FileTypeForExtension(filepath.Ext(fileName))
	if err != nil {
		return nil, err
	}
	if size > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	if err := u.checkQuota(ctx, userID, size); err != nil {
		return nil, err
	}

	filesDir := contentstore.FilesPath(lib.FolderPath)
	existing, err := u.store.GetFileByName(ctx, libraryID, fileName)
	switch {
	case err == nil:
		switch mode {
		case DuplicateSkip:
			return &UploadResult{File: existing, Skipped: true}, nil
		case DuplicateRename:
			fileName, err = u.freeName(ctx, libraryID, fileName)
			if err != nil {
				return nil, err
			}
			existing = nil
		}
	case errors.Is(err, models.ErrFileNotFound):
		existing = nil
	default:
		return nil, err
	}

	path := filepath.Join(filesDir, fileName)
	written, err := spool(path, r)
	if err != nil {
		return nil, err
	}
	if written > MaxUploadSize {
		os.Remove(path)
		return nil, ErrFileTooLarge
	}
	hash, err := contentstore.HashFile(path)
	if err != nil {
		return nil, err
	}

	file := existing
	if file == nil {
		file = &models.File{
			LibraryID:        libraryID,
			FileName:         fileName,
			FileType:         string(fileType),
			Size:             written,
			Path:             path,
			FileHash:         hash,
			ProcessingStatus: string(models.ProcessingPending),
		}
		if _, err := u.store.CreateFile(ctx, file); err != nil {
			os.Remove(path)
			return nil, err
		}
	} else {
		file.Size = written
		file.FileHash = hash
		file.ProcessingStatus = string(models.ProcessingPending)
		file.ProcessingError = ""
	}

	u.process(ctx, file)
	u.metrics.RecordUpload(written)

	result := &UploadResult{File: file}
	if existing == nil {
		page, err := u.frontPage(ctx, libraryID, file)
		if err != nil {
			return nil, err
		}
		result.Page = page
	}
	logger.Info("file uploaded",
		"library", libraryID, "file", file.ID, "name", fileName,
		"size", written, "status", file.ProcessingStatus)
	return result, nil
}

// Reprocess reruns metadata extraction for an owned file.
func (u *Uploader) Reprocess(ctx context.Context, userID, fileID string) (*models.File, error) {
	file, err := u.store.FileOwnedBy(ctx, fileID, userID)
	if err != nil {
		return nil, err
	}
	u.process(ctx, file)
	return file, nil
}

// Delete soft-deletes a file row, its fronting pages and its bytes.
func (u *Uploader) Delete(ctx context.Context, userID, fileID string) error {
	file, err := u.store.FileOwnedBy(ctx, fileID, userID)
	if err != nil {
		return err
	}
	if err := u.store.SoftDeleteFile(ctx, fileID); err != nil {
		return err
	}
	if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
		logger.Warn("file removal failed", "file", fileID, "path", file.Path, "error", err)
	}
	if file.CoverImagePath != "" {
		if err := os.Remove(file.CoverImagePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("cover removal failed", "file", fileID, "path", file.CoverImagePath, "error", err)
		}
	}
	return u.store.SoftDeletePagesForFile(ctx, fileID)
}

// checkQuota rejects the upload when it would push the user past quota.
func (u *Uploader) checkQuota(ctx context.Context, userID string, incoming int64) error {
	user, err := u.store.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	used, err := u.store.StorageUsed(ctx, userID)
	if err != nil {
		return err
	}
	if used+incoming > user.StorageQuota {
		return models.ErrQuotaExceeded
	}
	return nil
}

// freeName finds the first name_<n>.ext not taken in the library.
func (u *Uploader) freeName(ctx context.Context, libraryID, fileName string) (string, error) {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(fileName, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_%d%s", base, n, ext)
		_, err := u.store.GetFileByName(ctx, libraryID, candidate)
		if errors.Is(err, models.ErrFileNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
	}
}

// process runs extraction and persists the outcome on the row.
func (u *Uploader) process(ctx context.Context, file *models.File) {
	result, err := u.registry.Process(ctx, file.Path)
	if err != nil {
		file.ProcessingStatus = string(models.ProcessingFailed)
		file.ProcessingError = err.Error()
	} else {
		applyResult(file, result)
	}
	u.metrics.RecordProcessorRun(file.FileType, file.ProcessingStatus)
	if err := u.store.UpdateFileMetadata(ctx, file); err != nil {
		logger.Error("persisting file metadata failed", "file", file.ID, "error", err)
	}
}

// applyResult copies a processing result onto the file row.
func applyResult(file *models.File, result *processor.Result) {
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

// frontPage creates the page fronting an uploaded file, nudging the
// title until it is free in the library.
func (u *Uploader) frontPage(ctx context.Context, libraryID string, file *models.File) (*models.Page, error) {
	title := file.Title
	if strings.TrimSpace(title) == "" {
		title = processor.TitleFromFilename(file.FileName)
	}
	for attempt := 0; ; attempt++ {
		candidate := title
		if attempt > 0 {
			candidate = fmt.Sprintf("%s (%d)", title, attempt+1)
		}
		page, err := u.pages.CreateFilePage(ctx, libraryID, file.ID, candidate)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, models.ErrDuplicatePage) || attempt > 50 {
			return nil, err
		}
	}
}

// spool copies the upload through a dot-prefixed temp file and renames it
// into place, returning the byte count.
func spool(path string, r io.Reader) (int64, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", contentstore.ErrStorage, dir, err)
	}
	tmpName := tmp.Name()
	written, err := io.Copy(tmp, io.LimitReader(r, MaxUploadSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("%w: %s: %v", contentstore.ErrStorage, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, fmt.Errorf("%w: %s: %v", contentstore.ErrStorage, path, err)
	}
	return written, nil
}
