package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/contentstore"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
	"github.com/loreleaf/loreleaf/pkg/names"
)

// UsersHandler handles the admin-only user management endpoints. User
// creation and deletion keep the storage tree in step with the rows.
type UsersHandler struct {
	store   *store.GORMStore
	content *contentstore.Store
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(s *store.GORMStore, content *contentstore.Store) *UsersHandler {
	return &UsersHandler{store: s, content: content}
}

// CreateUserRequest is the request body for POST /api/v1/admin/users.
type CreateUserRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Role         string `json:"role,omitempty"`
	StorageQuota int64  `json:"storage_quota,omitempty"`
}

// List handles GET /api/v1/admin/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		used, _ := h.store.StorageUsed(r.Context(), u.ID)
		out = append(out, UserResponse{
			ID:           u.ID,
			Username:     u.Username,
			Role:         u.Role,
			StorageQuota: u.StorageQuota,
			StorageUsed:  used,
			CreatedAt:    u.CreatedAt,
			LastLogin:    u.LastLogin,
		})
	}
	WriteJSONOK(w, out)
}

// Create handles POST /api/v1/admin/users.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if err := names.ValidateUsername(req.Username); err != nil {
		BadRequest(w, err.Error())
		return
	}
	if len(req.Password) < 8 {
		BadRequest(w, "Password must be at least 8 characters")
		return
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		InternalServerError(w, "Failed to hash password")
		return
	}
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         req.Role,
		StorageQuota: req.StorageQuota,
	}
	if user.Role == "" {
		user.Role = string(models.RoleUser)
	}
	if user.StorageQuota == 0 {
		user.StorageQuota = models.DefaultStorageQuota
	}

	if _, err := h.store.CreateUser(r.Context(), user); err != nil {
		RespondError(w, err)
		return
	}
	if err := h.content.CreateUserTree(user.Username, user.StorageQuota); err != nil {
		logger.Error("user tree creation failed", "username", user.Username, "error", err)
		InternalServerError(w, "Failed to create storage tree")
		return
	}

	WriteJSONCreated(w, UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		StorageQuota: user.StorageQuota,
		CreatedAt:    user.CreatedAt,
	})
}

// Delete handles DELETE /api/v1/admin/users/{username}. The user's rows
// cascade and the storage tree is archived, not destroyed.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	id := identity(w, r)
	if id == nil {
		return
	}
	if id.Username == username {
		Conflict(w, "Cannot delete the requesting account")
		return
	}

	if err := h.store.DeleteUser(r.Context(), username); err != nil {
		RespondError(w, err)
		return
	}
	if archived, err := h.content.ArchiveUserTree(username); err != nil {
		logger.Warn("user tree archive failed", "username", username, "error", err)
	} else {
		logger.Info("user tree archived", "username", username, "path", archived)
	}
	WriteNoContent(w)
}

// ResetPasswordRequest is the request body for password resets.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResetPassword handles PUT /api/v1/admin/users/{username}/password.
func (h *UsersHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var req ResetPasswordRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if len(req.Password) < 8 {
		BadRequest(w, "Password must be at least 8 characters")
		return
	}
	hash, err := models.HashPassword(req.Password)
	if err != nil {
		InternalServerError(w, "Failed to hash password")
		return
	}
	if err := h.store.UpdatePassword(r.Context(), username, hash); err != nil {
		RespondError(w, err)
		return
	}
	WriteNoContent(w)
}

// UpdateQuotaRequest is the request body for quota updates.
type UpdateQuotaRequest struct {
	StorageQuota int64 `json:"storage_quota"`
}

// UpdateQuota handles PUT /api/v1/admin/users/{username}/quota.
func (h *UsersHandler) UpdateQuota(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	var req UpdateQuotaRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.StorageQuota <= 0 {
		BadRequest(w, "Quota must be positive")
		return
	}
	if err := h.store.UpdateStorageQuota(r.Context(), username, req.StorageQuota); err != nil {
		RespondError(w, err)
		return
	}
	WriteNoContent(w)
}
