// Package names canonicalizes user-supplied names into safe filesystem
// segments and validates identity names.
package names

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidName indicates a name that cannot be canonicalized into a
// usable filesystem segment.
var ErrInvalidName = errors.New("invalid name")

const (
	// MinLibraryNameLength is the minimum accepted library name length.
	MinLibraryNameLength = 1
	// MaxLibraryNameLength is the maximum accepted library name length.
	MaxLibraryNameLength = 50

	// MinUsernameLength is the minimum accepted username length.
	MinUsernameLength = 3
	// MaxUsernameLength is the maximum accepted username length.
	MaxUsernameLength = 20
)

var (
	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
	nonSlugChars    = regexp.MustCompile(`[^a-z0-9-]`)
	dashRuns        = regexp.MustCompile(`-+`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// Slugify canonicalizes a display name into a lowercase kebab-case slug
// suitable for use as an on-disk directory name: lowercased, whitespace
// replaced with "-", characters outside [a-z0-9-] stripped, runs of "-"
// collapsed, leading/trailing "-" trimmed.
//
// Returns ErrInvalidName when the input violates the library name length
// bounds or when nothing usable remains after canonicalization.
func Slugify(name string) (string, error) {
	if len(name) < MinLibraryNameLength || len(name) > MaxLibraryNameLength {
		return "", fmt.Errorf("%w: name must be %d-%d characters, got %d",
			ErrInvalidName, MinLibraryNameLength, MaxLibraryNameLength, len(name))
	}

	slug := strings.ToLower(name)
	slug = whitespace.ReplaceAllString(slug, "-")
	slug = nonSlugChars.ReplaceAllString(slug, "")
	slug = dashRuns.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")

	if slug == "" {
		return "", fmt.Errorf("%w: %q contains no usable characters", ErrInvalidName, name)
	}
	return slug, nil
}

// ValidateUsername checks that a username is 3-20 characters of
// [A-Za-z0-9-]. Usernames are validated as-is, never transformed.
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return fmt.Errorf("%w: username must be %d-%d characters",
			ErrInvalidName, MinUsernameLength, MaxUsernameLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username may only contain letters, digits and dashes", ErrInvalidName)
	}
	return nil
}
