// Package middleware provides HTTP middleware for the loreleaf API.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/loreleaf/loreleaf/pkg/api/auth"
	"github.com/loreleaf/loreleaf/pkg/metadata/store"
)

// Identity is the authenticated principal stored in the request context.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// IsAdmin reports whether the identity has the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

type contextKey string

const identityContextKey contextKey = "identity"

// GetIdentity retrieves the authenticated identity from the request
// context. Returns nil on routes without the auth middleware.
func GetIdentity(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return id
}

// WithIdentity stores an identity in the context. Exported for handler
// tests.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// extractBearerToken extracts the token from a Bearer Authorization
// header.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Authenticator resolves requests to identities via either a JWT bearer
// token (CLI clients) or a database-backed session cookie (web clients).
type Authenticator struct {
	jwt        *auth.Service
	store      *store.GORMStore
	cookieName string
}

// NewAuthenticator creates the authenticator middleware factory.
func NewAuthenticator(jwtService *auth.Service, s *store.GORMStore, cookieName string) *Authenticator {
	return &Authenticator{jwt: jwtService, store: s, cookieName: cookieName}
}

// CookieName returns the session cookie name.
func (a *Authenticator) CookieName() string {
	return a.cookieName
}

// Require rejects unauthenticated requests with 401.
func (a *Authenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := a.resolve(r)
		if identity == nil {
			unauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

// RequireAdmin blocks non-admin identities. Must run after Require.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := GetIdentity(r.Context())
		if identity == nil {
			unauthorized(w, "Authentication required")
			return
		}
		if !identity.IsAdmin() {
			forbidden(w, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// resolve tries the bearer token first, then the session cookie.
func (a *Authenticator) resolve(r *http.Request) *Identity {
	if token, ok := extractBearerToken(r); ok {
		if claims, err := a.jwt.Validate(token); err == nil {
			return &Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}
		}
		return nil
	}

	cookie, err := r.Cookie(a.cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := a.store.GetSessionByToken(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	user, err := a.store.GetUserByID(r.Context(), session.UserID)
	if err != nil {
		return nil
	}
	return &Identity{UserID: user.ID, Username: user.Username, Role: user.Role}
}

// errorBody mirrors the handlers' error envelope. Duplicated here so the
// middleware does not import the handlers package.
type errorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Code: code, Message: message, Timestamp: time.Now().UTC()})
}

func unauthorized(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func forbidden(w http.ResponseWriter, message string) {
	writeError(w, http.StatusForbidden, "FORBIDDEN", message)
}
