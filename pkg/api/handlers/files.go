package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/pages"
)

// FilesHandler handles file uploads, downloads and cover images.
type FilesHandler struct {
	store    *store.GORMStore
	uploader *pages.Uploader
}

// NewFilesHandler creates a FilesHandler.
func NewFilesHandler(s *store.GORMStore, uploader *pages.Uploader) *FilesHandler {
	return &FilesHandler{store: s, uploader: uploader}
}

// FileResponse is the API representation of an uploaded file.
type FileResponse struct {
	ID               string    `json:"id"`
	LibraryID        string    `json:"library_id"`
	FileName         string    `json:"file_name"`
	FileType         string    `json:"file_type"`
	Size             int64     `json:"size"`
	Title            string    `json:"title,omitempty"`
	Author           string    `json:"author,omitempty"`
	Description      string    `json:"description,omitempty"`
	PDFPageCount     int       `json:"pdf_page_count,omitempty"`
	EpubChapterCount int       `json:"epub_chapter_count,omitempty"`
	ImageWidth       int       `json:"image_width,omitempty"`
	ImageHeight      int       `json:"image_height,omitempty"`
	HasCover         bool      `json:"has_cover"`
	ProcessingStatus string    `json:"processing_status"`
	ProcessingError  string    `json:"processing_error,omitempty"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

func fileToResponse(f *models.File) FileResponse {
	return FileResponse{
		ID:               f.ID,
		LibraryID:        f.LibraryID,
		FileName:         f.FileName,
		FileType:         f.FileType,
		Size:             f.Size,
		Title:            f.Title,
		Author:           f.Author,
		Description:      f.Description,
		PDFPageCount:     f.PDFPageCount,
		EpubChapterCount: f.EpubChapterCount,
		ImageWidth:       f.ImageWidth,
		ImageHeight:      f.ImageHeight,
		HasCover:         f.CoverImagePath != "",
		ProcessingStatus: f.ProcessingStatus,
		ProcessingError:  f.ProcessingError,
		UploadedAt:       f.UploadedAt,
	}
}

// UploadResponse is one entry of the batch upload result.
type UploadResponse struct {
	File    FileResponse  `json:"file"`
	Page    *PageResponse `json:"page,omitempty"`
	Skipped bool          `json:"skipped"`
	Error   string        `json:"error,omitempty"`
}

// Upload handles POST /api/v1/libraries/{libraryID}/files. Multipart
// form with one or more "files" parts, capped at ten per request. The
// "mode" field selects duplicate handling: skip, replace or rename.
// Failures are per-part; one bad file does not sink the batch.
func (h *FilesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	libraryID := chi.URLParam(r, "libraryID")

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		BadRequest(w, "Invalid multipart form")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	mode := pages.DuplicateMode(r.FormValue("mode"))
	if mode == "" {
		mode = pages.DuplicateSkip
	}
	if !mode.IsValid() {
		BadRequest(w, fmt.Sprintf("Unknown duplicate mode %q", mode))
		return
	}

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		BadRequest(w, "No files in request")
		return
	}
	if len(parts) > pages.MaxBatchFiles {
		BadRequest(w, fmt.Sprintf("At most %d files per upload", pages.MaxBatchFiles))
		return
	}

	out := make([]UploadResponse, 0, len(parts))
	for _, part := range parts {
		src, err := part.Open()
		if err != nil {
			out = append(out, UploadResponse{Error: "unreadable part"})
			continue
		}
		result, err := h.uploader.Upload(r.Context(), id.UserID, libraryID, part.Filename, src, part.Size, mode)
		_ = src.Close()
		if err != nil {
			logger.Warn("upload failed", "file", part.Filename, "error", err)
			out = append(out, UploadResponse{
				File:  FileResponse{FileName: part.Filename},
				Error: err.Error(),
			})
			continue
		}
		entry := UploadResponse{File: fileToResponse(result.File), Skipped: result.Skipped}
		if result.Page != nil {
			page := pageToResponse(result.Page, false)
			entry.Page = &page
		}
		out = append(out, entry)
	}
	WriteJSONCreated(w, out)
}

// List handles GET /api/v1/libraries/{libraryID}/files.
func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	if _, err := h.store.LibraryOwnedBy(r.Context(), chi.URLParam(r, "libraryID"), id.UserID); err != nil {
		RespondError(w, err)
		return
	}
	files, err := h.store.ListFiles(r.Context(), chi.URLParam(r, "libraryID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, fileToResponse(f))
	}
	WriteJSONOK(w, out)
}

// Get handles GET /api/v1/files/{fileID}.
func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	file, err := h.store.FileOwnedBy(r.Context(), chi.URLParam(r, "fileID"), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, fileToResponse(file))
}

// Download handles GET /api/v1/files/{fileID}/download. It streams the
// raw bytes with the original filename as the attachment name.
func (h *FilesHandler) Download(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	file, err := h.store.FileOwnedBy(r.Context(), chi.URLParam(r, "fileID"), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.FileName))
	http.ServeFile(w, r, file.Path)
}

// Cover handles GET /api/v1/files/{fileID}/cover. Covers are immutable
// per extraction, so clients may cache them for a day.
func (h *FilesHandler) Cover(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	file, err := h.store.FileOwnedBy(r.Context(), chi.URLParam(r, "fileID"), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if file.CoverImagePath == "" {
		NotFound(w, "File has no cover image")
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, file.CoverImagePath)
}

// Reprocess handles POST /api/v1/files/{fileID}/reprocess. It reruns
// metadata extraction, typically after a processor failure.
func (h *FilesHandler) Reprocess(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	file, err := h.uploader.Reprocess(r.Context(), id.UserID, chi.URLParam(r, "fileID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, fileToResponse(file))
}

// Delete handles DELETE /api/v1/files/{fileID}. The row, bytes, cover
// and any fronting pages all go.
func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	if err := h.uploader.Delete(r.Context(), id.UserID, chi.URLParam(r, "fileID")); err != nil {
		RespondError(w, err)
		return
	}
	WriteNoContent(w)
}
