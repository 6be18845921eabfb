package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/workspace"
)

// WorkspacesHandler handles workspace CRUD and the ordered item list.
type WorkspacesHandler struct {
	workspaces *workspace.Service
}

// NewWorkspacesHandler creates a WorkspacesHandler.
func NewWorkspacesHandler(ws *workspace.Service) *WorkspacesHandler {
	return &WorkspacesHandler{workspaces: ws}
}

// WorkspaceResponse is the API representation of a workspace.
type WorkspaceResponse struct {
	ID             string     `json:"id"`
	LibraryID      string     `json:"library_id"`
	Title          string     `json:"title"`
	IsFavorited    bool       `json:"is_favorited"`
	LastAccessedAt *time.Time `json:"last_accessed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func workspaceToResponse(ws *models.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:             ws.ID,
		LibraryID:      ws.LibraryID,
		Title:          ws.Title,
		IsFavorited:    ws.IsFavorited,
		LastAccessedAt: ws.LastAccessedAt,
		CreatedAt:      ws.CreatedAt,
		UpdatedAt:      ws.UpdatedAt,
	}
}

// CreateWorkspaceRequest is the request body for POST /api/v1/workspaces.
type CreateWorkspaceRequest struct {
	LibraryID string `json:"library_id"`
	Title     string `json:"title"`
}

// Create handles POST /api/v1/workspaces.
func (h *WorkspacesHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req CreateWorkspaceRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.LibraryID == "" || req.Title == "" {
		BadRequest(w, "library_id and title are required")
		return
	}
	ws, err := h.workspaces.Create(r.Context(), id.UserID, req.LibraryID, req.Title)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONCreated(w, workspaceToResponse(ws))
}

// List handles GET /api/v1/libraries/{libraryID}/workspaces.
func (h *WorkspacesHandler) List(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	list, err := h.workspaces.List(r.Context(), id.UserID, chi.URLParam(r, "libraryID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	out := make([]WorkspaceResponse, 0, len(list))
	for _, ws := range list {
		out = append(out, workspaceToResponse(ws))
	}
	WriteJSONOK(w, out)
}

// Get handles GET /api/v1/workspaces/{workspaceID}. Reads bump the
// last-accessed timestamp.
func (h *WorkspacesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	ws, err := h.workspaces.Get(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, workspaceToResponse(ws))
}

// Delete handles DELETE /api/v1/workspaces/{workspaceID}.
func (h *WorkspacesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	if err := h.workspaces.Delete(r.Context(), id.UserID, chi.URLParam(r, "workspaceID")); err != nil {
		RespondError(w, err)
		return
	}
	WriteNoContent(w)
}

// FavoriteRequest is the request body for the favorite toggle.
type FavoriteRequest struct {
	Favorited bool `json:"favorited"`
}

// SetFavorite handles PUT /api/v1/workspaces/{workspaceID}/favorite.
func (h *WorkspacesHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req FavoriteRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := h.workspaces.SetFavorite(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"), req.Favorited); err != nil {
		RespondError(w, err)
		return
	}
	WriteNoContent(w)
}

// DuplicateRequest is the request body for workspace duplication.
type DuplicateRequest struct {
	Title string `json:"title"`
}

// Duplicate handles POST /api/v1/workspaces/{workspaceID}/duplicate.
// The copy shares referents with the original; only membership rows are
// cloned.
func (h *WorkspacesHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req DuplicateRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Title == "" {
		BadRequest(w, "Title is required")
		return
	}
	ws, err := h.workspaces.Duplicate(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"), req.Title)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONCreated(w, workspaceToResponse(ws))
}

// ListItems handles GET /api/v1/workspaces/{workspaceID}/items. Items
// come back in position order with their referent summaries joined in.
func (h *WorkspacesHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	items, err := h.workspaces.ListItems(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, items)
}

// AIContext handles GET /api/v1/workspaces/{workspaceID}/ai-context. It
// returns the pages flagged for model context, files excluded.
func (h *WorkspacesHandler) AIContext(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	items, err := h.workspaces.AIContextItems(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"))
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, items)
}

// AddItemRequest is the request body for adding an item to a workspace.
type AddItemRequest struct {
	ItemID   string `json:"item_id"`
	Kind     string `json:"kind"`
	Position *int   `json:"position,omitempty"`
	Depth    int    `json:"depth,omitempty"`
}

// AddItem handles POST /api/v1/workspaces/{workspaceID}/items. Omitted
// position appends.
func (h *WorkspacesHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req AddItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	kind := models.ItemKind(req.Kind)
	item, err := h.workspaces.AddItem(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"), req.ItemID, kind, req.Position, req.Depth)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONCreated(w, item)
}

// MoveItemRequest is the request body for repositioning an item.
type MoveItemRequest struct {
	Kind     string `json:"kind"`
	Position int    `json:"position"`
	Depth    *int   `json:"depth,omitempty"`
}

// MoveItem handles PUT /api/v1/workspaces/{workspaceID}/items/{itemID}/position.
func (h *WorkspacesHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req MoveItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	item, err := h.workspaces.MoveItem(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"),
		chi.URLParam(r, "itemID"), models.ItemKind(req.Kind), req.Position, req.Depth)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, item)
}

// UpdateItemRequest is the request body for the per-item flag update.
type UpdateItemRequest struct {
	Kind          string `json:"kind"`
	Depth         *int   `json:"depth,omitempty"`
	IsInAIContext *bool  `json:"is_in_ai_context,omitempty"`
	IsCollapsed   *bool  `json:"is_collapsed,omitempty"`
}

// UpdateItem handles PUT /api/v1/workspaces/{workspaceID}/items/{itemID}.
func (h *WorkspacesHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	var req UpdateItemRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	item, err := h.workspaces.UpdateFlags(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"),
		chi.URLParam(r, "itemID"), models.ItemKind(req.Kind), workspace.FlagUpdate{
			Depth:         req.Depth,
			IsInAIContext: req.IsInAIContext,
			IsCollapsed:   req.IsCollapsed,
		})
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, item)
}

// RemoveItem handles DELETE /api/v1/workspaces/{workspaceID}/items/{itemID}.
// The kind travels in the query string since DELETE carries no body.
func (h *WorkspacesHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	kind := models.ItemKind(r.URL.Query().Get("kind"))
	removed, err := h.workspaces.RemoveItem(r.Context(), id.UserID, chi.URLParam(r, "workspaceID"),
		chi.URLParam(r, "itemID"), kind)
	if err != nil {
		RespondError(w, err)
		return
	}
	if !removed {
		NotFound(w, "Item is not in the workspace")
		return
	}
	WriteNoContent(w)
}
