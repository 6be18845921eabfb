package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/loreleaf/loreleaf/internal/logger"
	"github.com/loreleaf/loreleaf/pkg/api/auth"
	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

// AuthHandler handles login, logout and identity introspection.
type AuthHandler struct {
	store      *store.GORMStore
	jwtService *auth.Service
	cookieName string
	secure     bool
}

// NewAuthHandler creates an AuthHandler. secure controls the session
// cookie's Secure attribute; leave it off for plain-HTTP development.
func NewAuthHandler(s *store.GORMStore, jwtService *auth.Service, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{store: s, jwtService: jwtService, cookieName: cookieName, secure: secure}
}

// LoginRequest is the request body for POST /api/v1/auth/login.
// Client selects the credential kind: "web" receives a session cookie,
// "cli" receives a bearer token in the body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Client   string `json:"client,omitempty"`
}

// LoginResponse is the response body for POST /api/v1/auth/login.
type LoginResponse struct {
	Token     string       `json:"token,omitempty"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the sanitized user representation for API responses.
type UserResponse struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Role         string     `json:"role"`
	StorageQuota int64      `json:"storage_quota"`
	StorageUsed  int64      `json:"storage_used"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		BadRequest(w, "Username and password are required")
		return
	}

	user, err := h.store.ValidateCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			Unauthorized(w, "Invalid username or password")
			return
		}
		InternalServerError(w, "Authentication failed")
		return
	}

	if err := h.store.UpdateLastLogin(r.Context(), user.Username, time.Now()); err != nil {
		logger.Warn("updating last login failed", "username", user.Username, "error", err)
	}

	resp := LoginResponse{User: h.userToResponse(r, user)}

	if req.Client == "cli" {
		token, expiresAt, err := h.jwtService.Generate(user)
		if err != nil {
			InternalServerError(w, "Failed to generate token")
			return
		}
		resp.Token = token
		resp.ExpiresAt = expiresAt
		WriteJSONOK(w, resp)
		return
	}

	session, err := h.store.CreateSession(r.Context(), user.ID, models.SessionKindWeb)
	if err != nil {
		InternalServerError(w, "Failed to create session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	resp.ExpiresAt = session.ExpiresAt
	WriteJSONOK(w, resp)
}

// Logout handles POST /api/v1/auth/logout. It deletes the web session
// and clears the cookie; bearer tokens simply expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.store.DeleteSession(r.Context(), cookie.Value); err != nil &&
			!errors.Is(err, models.ErrSessionNotFound) {
			logger.Warn("session deletion failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	WriteNoContent(w)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	id := identity(w, r)
	if id == nil {
		return
	}
	user, err := h.store.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		RespondError(w, err)
		return
	}
	WriteJSONOK(w, h.userToResponse(r, user))
}

// userToResponse converts a User for API output, including derived
// storage usage.
func (h *AuthHandler) userToResponse(r *http.Request, user *models.User) UserResponse {
	used, err := h.store.StorageUsed(r.Context(), user.ID)
	if err != nil {
		logger.Warn("computing storage usage failed", "username", user.Username, "error", err)
	}
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		StorageQuota: user.StorageQuota,
		StorageUsed:  used,
		CreatedAt:    user.CreatedAt,
		LastLogin:    user.LastLogin,
	}
}
