// Package handlers provides the HTTP handlers for the loreleaf API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/names"
	"github.com/loreleaf/loreleaf/pkg/pages"
)

// ErrorBody is the error envelope returned by every failing endpoint.
// Codes are stable; messages are for humans and may change.
type ErrorBody struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Stable error codes.
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeQuotaExceeded   = "QUOTA_EXCEEDED"
	CodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedType = "UNSUPPORTED_FILE_TYPE"
	CodeInternal        = "INTERNAL"
)

// WriteError writes the error envelope with the given status and code.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden writes a 403 response.
func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, CodeForbidden, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// Conflict writes a 409 response.
func Conflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, CodeConflict, message)
}

// InternalServerError writes a 500 response.
func InternalServerError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, message)
}

// RespondError maps a domain error onto the envelope. Ownership
// mismatches surface as NOT_FOUND by construction: the stores already
// answer absence for resources the caller does not own.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrLibraryNotFound),
		errors.Is(err, models.ErrPageNotFound),
		errors.Is(err, models.ErrFileNotFound),
		errors.Is(err, models.ErrWorkspaceNotFound),
		errors.Is(err, models.ErrItemNotFound):
		WriteError(w, http.StatusNotFound, CodeNotFound, err.Error())

	case errors.Is(err, models.ErrDuplicateUser),
		errors.Is(err, models.ErrDuplicateLibrary),
		errors.Is(err, models.ErrDuplicatePage),
		errors.Is(err, models.ErrDuplicateFile),
		errors.Is(err, models.ErrDuplicateWorkspace),
		errors.Is(err, models.ErrItemAlreadyPresent):
		WriteError(w, http.StatusConflict, CodeConflict, err.Error())

	case errors.Is(err, models.ErrInvalidCredentials),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrSessionExpired):
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())

	case errors.Is(err, models.ErrQuotaExceeded):
		WriteError(w, http.StatusRequestEntityTooLarge, CodeQuotaExceeded, err.Error())

	case errors.Is(err, pages.ErrFileTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, CodePayloadTooLarge, err.Error())

	case errors.Is(err, models.ErrUnsupportedFileType):
		WriteError(w, http.StatusUnsupportedMediaType, CodeUnsupportedType, err.Error())

	case errors.Is(err, names.ErrInvalidName):
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())

	default:
		WriteError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
