package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/names"
	syncpkg "github.com/loreleaf/loreleaf/pkg/sync"
)

// LibrariesHandler handles library lifecycle and on-demand sync.
type LibrariesHandler struct {
	store      *store.GORMStore
	content    *contentstore.Store
	reconciler *syncpkg.Reconciler
}

// NewLibrariesHandler creates a LibrariesHandler.
func NewLibrariesHandler(s *store.GORMStore, content *contentstore.Store, reconciler *syncpkg.Reconciler) *LibrariesHandler {
	return &LibrariesHandler{store: s, content: content, reconciler: reconciler}
}

// LibraryResponse is the API representation of a library.
type LibraryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

func libraryToResponse(lib *models.Library) LibraryResponse {
	return LibraryResponse{ID: lib.ID, Name: lib.Name, Slug: lib.Slug, CreatedAt: lib.CreatedAt}
}

// List handles GET /api/v1/libraries.
func (h *LibrariesHandler) List(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	libs, err := h.store.ListLibraries(r.Context(), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	out := make([]LibraryResponse, 0, len(libs))
	for _, lib := range libs {
		out = append(out, libraryToResponse(lib))
	}
	WriteJSONOK(w, out)
}

// CreateLibraryRequest is the request body for POST /api/v1/libraries.
type CreateLibraryRequest struct {
	Name string `json:"name"`
}

// Create handles POST /api/v1/libraries. The directory tree is created
// before the row; a leftover tree from a failed earlier attempt is not
// an error.
func (h *LibrariesHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req CreateLibraryRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	slug, err := names.Slugify(req.Name)
	if err != nil {
		BadRequest(w, err.Error())
		return
	}

	folderPath, err := h.content.CreateLibraryTree(id.Username, req.Name, slug)
	if err != nil {
		logger.Error("library tree creation failed", "username", id.Username, "slug", slug, "error", err)
		InternalServerError(w, "Failed to create library directory")
		return
	}

	lib := &models.Library{
		UserID:     id.UserID,
		Name:       req.Name,
		Slug:       slug,
		FolderPath: folderPath,
	}
	if _, err := h.store.CreateLibrary(r.Context(), lib); err != nil {
		RespondError(w, err)
		return
	}
	logger.Info("library created", "username", id.Username, "library", slug)
	WriteJSONCreated(w, libraryToResponse(lib))
}

// Get handles GET /api/v1/libraries/{libraryID}.
func (h *LibrariesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	lib, err := h.store.LibraryOwnedBy(r.Context(), chi.URLParam(r, "libraryID"), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, libraryToResponse(lib))
}

// Delete handles DELETE /api/v1/libraries/{libraryID}. Rows are
// soft-deleted and the directory tree is archived for manual recovery.
func (h *LibrariesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	lib, err := h.store.LibraryOwnedBy(r.Context(), chi.URLParam(r, "libraryID"), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	if err := h.store.SoftDeleteLibrary(r.Context(), lib.ID); err != nil {
		RespondError(w, err)
		return
	}
	if archived, err := h.content.ArchiveLibraryTree(id.Username, lib.Slug); err != nil {
		logger.Warn("library tree archive failed", "username", id.Username, "library", lib.Slug, "error", err)
	} else {
		logger.Info("library tree archived", "username", id.Username, "library", lib.Slug, "path", archived)
	}
	WriteNoContent(w)
}

// Sync handles POST /api/v1/libraries/{libraryID}/sync. It runs a full
// reconciliation pass and returns the per-entry summary.
func (h *LibrariesHandler) Sync(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	lib, err := h.store.LibraryOwnedBy(r.Context(), chi.URLParam(r, "libraryID"), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	summary, err := h.reconciler.ForceSync(r.Context(), lib)
	if err != nil {
		logger.Error("forced sync failed", "library", lib.Slug, "error", err)
		InternalServerError(w, "Sync failed")
		return
	}
	WriteJSONOK(w, summary)
}
