package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loreleaf/loreleaf/pkg/links"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/pages"
)

// PagesHandler handles page CRUD, the draft lifecycle and the link graph
// endpoints.
type PagesHandler struct {
	store *store.GORMStore
	pages *pages.Service
	links *links.Service
}

// NewPagesHandler creates a PagesHandler.
func NewPagesHandler(s *store.GORMStore, p *pages.Service, l *links.Service) *PagesHandler {
	return &PagesHandler{store: s, pages: p, links: l}
}

// PageResponse is the API representation of a page. Content is omitted
// from list responses.
type PageResponse struct {
	ID             string    `json:"id"`
	LibraryID      string    `json:"library_id"`
	Title          string    `json:"title"`
	PageType       string    `json:"page_type"`
	Content        string    `json:"content,omitempty"`
	ContentPreview string    `json:"content_preview"`
	FileID         *string   `json:"file_id,omitempty"`
	WorkspaceID    *string   `json:"workspace_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func pageToResponse(p *models.Page, withContent bool) PageResponse {
	resp := PageResponse{
		ID:             p.ID,
		LibraryID:      p.LibraryID,
		Title:          p.TitleOrEmpty(),
		PageType:       p.PageType,
		ContentPreview: p.ContentPreview,
		FileID:         p.FileID,
		WorkspaceID:    p.WorkspaceID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if withContent {
		resp.Content = p.Content
	}
	return resp
}

// CreatePageRequest is the request body for POST /api/v1/pages. A
// workspace_id creates a draft in that workspace instead of a saved
// page.
type CreatePageRequest struct {
	LibraryID   string `json:"library_id,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	Title       string `json:"title,omitempty"`
	Content     string `json:"content,omitempty"`
}

// Create handles POST /api/v1/pages.
func (h *PagesHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req CreatePageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.WorkspaceID != "" {
		page, err := h.pages.CreateDraft(r.Context(), id.UserID, req.WorkspaceID)
		if err != nil {
			RespondError(w, err)
			return
		}
		WriteJSONCreated(w, pageToResponse(page, true))
		return
	}

	if req.LibraryID == "" {
		BadRequest(w, "Either library_id or workspace_id is required")
		return
	}
	if req.Title == "" {
		BadRequest(w, "Title is required for saved pages")
		return
	}
	page, err := h.pages.CreateSaved(r.Context(), id.UserID, req.LibraryID, req.Title, req.Content)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONCreated(w, pageToResponse(page, true))
}

// List handles GET /api/v1/libraries/{libraryID}/pages.
func (h *PagesHandler) List(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	list, err := h.pages.List(r.Context(), id.UserID, chi.URLParam(r, "libraryID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	out := make([]PageResponse, 0, len(list))
	for _, p := range list {
		out = append(out, pageToResponse(p, false))
	}
	WriteJSONOK(w, out)
}

// Get handles GET /api/v1/pages/{pageID}.
func (h *PagesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	page, err := h.pages.Get(r.Context(), id.UserID, chi.URLParam(r, "pageID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, pageToResponse(page, true))
}

// UpdatePageRequest is the request body for PUT /api/v1/pages/{pageID}.
// Content and title updates are independent; either may be omitted.
type UpdatePageRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Update handles PUT /api/v1/pages/{pageID}. Renames run before the
// content update so link reparsing sees the final title.
func (h *PagesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	pageID := chi.URLParam(r, "pageID")
	var req UpdatePageRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == nil && req.Content == nil {
		BadRequest(w, "Nothing to update")
		return
	}

	var report *links.Report
	if req.Title != nil {
		if _, err := h.pages.Rename(r.Context(), id.UserID, pageID, *req.Title); err != nil {
			RespondError(w, err)
			return
		}
	}
	if req.Content != nil {
		var err error
		report, err = h.pages.UpdateContent(r.Context(), id.UserID, pageID, *req.Content)
		if err != nil {
			RespondError(w, err)
			return
		}
	}

	page, err := h.pages.Get(r.Context(), id.UserID, pageID)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, struct {
		Page  PageResponse  `json:"page"`
		Links *links.Report `json:"links,omitempty"`
	}{pageToResponse(page, true), report})
}

// SaveDraftRequest is the request body for POST /api/v1/pages/{pageID}/save.
type SaveDraftRequest struct {
	Title string `json:"title"`
}

// SaveDraft handles POST /api/v1/pages/{pageID}/save. It converts an
// unsaved draft into a saved page with a backing file.
func (h *PagesHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req SaveDraftRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		BadRequest(w, "Title is required")
		return
	}
	page, err := h.pages.SaveDraft(r.Context(), id.UserID, chi.URLParam(r, "pageID"), req.Title)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, pageToResponse(page, true))
}

// Delete handles DELETE /api/v1/pages/{pageID}.
func (h *PagesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	if err := h.pages.Delete(r.Context(), id.UserID, chi.URLParam(r, "pageID")); err != nil {
		RespondError(w, err)
		return
	}
	WriteNoContent(w)
}

// LinkResponse is one edge of the page link graph.
type LinkResponse struct {
	LinkText     string  `json:"link_text"`
	Position     int     `json:"position"`
	SourcePageID string  `json:"source_page_id"`
	TargetPageID *string `json:"target_page_id,omitempty"`
}

// Links handles GET /api/v1/pages/{pageID}/links. It returns forward
// links and backlinks in one payload.
func (h *PagesHandler) Links(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	pageID := chi.URLParam(r, "pageID")
	if _, err := h.pages.Get(r.Context(), id.UserID, pageID); err != nil {
		RespondError(w, err)
		return
	}

	forward, err := h.links.ForwardLinks(r.Context(), pageID)
	if err != nil {
		RespondError(w, err)
		return
	}
	back, err := h.links.Backlinks(r.Context(), pageID)
	if err != nil {
		RespondError(w, err)
		return
	}

	toResp := func(list []*models.PageLink) []LinkResponse {
		out := make([]LinkResponse, 0, len(list))
		for _, l := range list {
			out = append(out, LinkResponse{
				LinkText:     l.LinkText,
				Position:     l.Position,
				SourcePageID: l.SourcePageID,
				TargetPageID: l.TargetPageID,
			})
		}
		return out
	}
	WriteJSONOK(w, struct {
		Forward []LinkResponse `json:"forward_links"`
		Back    []LinkResponse `json:"backlinks"`
	}{toResp(forward), toResp(back)})
}

// Stats handles GET /api/v1/pages/{pageID}/stats.
func (h *PagesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	pageID := chi.URLParam(r, "pageID")
	if _, err := h.pages.Get(r.Context(), id.UserID, pageID); err != nil {
		RespondError(w, err)
		return
	}
	stats, err := h.links.StatsFor(r.Context(), pageID)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, stats)
}
