package models

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/loreleaf/loreleaf/pkg/names"
)

// UserRole represents the role of a user in the system.
type UserRole string

const (
	// RoleUser is a regular user who owns libraries.
	RoleUser UserRole = "user"
	// RoleAdmin is an administrator who can manage users.
	RoleAdmin UserRole = "admin"
)

// IsValid checks if the role is a valid UserRole.
func (r UserRole) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// DefaultStorageQuota is the per-user storage quota applied when none is
// configured (1 GiB).
const DefaultStorageQuota int64 = 1 << 30

// User owns libraries and carries the storage quota for everything under
// its on-disk tree. Storage used is derived by query, never cached here.
type User struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	Username     string     `gorm:"uniqueIndex;not null;size:20" json:"username"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         string     `gorm:"default:user;size:50" json:"role"`
	StorageQuota int64      `gorm:"not null" json:"storage_quota"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	LastLogin    *time.Time `json:"last_login,omitempty"`

	Libraries []Library `gorm:"foreignKey:UserID" json:"libraries,omitempty"`
}

// TableName returns the table name for User.
func (User) TableName() string {
	return "users"
}

// Validate checks if the user has valid configuration.
func (u *User) Validate() error {
	if err := names.ValidateUsername(u.Username); err != nil {
		return err
	}
	if u.Role != "" && !UserRole(u.Role).IsValid() {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	if u.StorageQuota < 0 {
		return fmt.Errorf("storage quota must not be negative")
	}
	return nil
}

// IsAdmin checks if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == string(RoleAdmin)
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword returns the bcrypt hash for a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
