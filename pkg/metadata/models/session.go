package models

import "time"

// SessionKind distinguishes cookie-bound web sessions from CLI tokens.
type SessionKind string

const (
	// SessionKindWeb is a browser session bound to a cookie.
	SessionKindWeb SessionKind = "web"
	// SessionKindCLI is an opaque bearer token with a 30-day expiry.
	SessionKindCLI SessionKind = "cli"
)

// Session is a server-side authentication session. The Token column holds
// the opaque value handed to the client (cookie value or bearer token).
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"not null;size:36;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null;size:128" json:"-"`
	Kind      string    `gorm:"not null;size:10" json:"kind"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for Session.
func (Session) TableName() string {
	return "sessions"
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
