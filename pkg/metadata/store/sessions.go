package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// WebSessionDuration is the lifetime of a cookie-bound web session.
const WebSessionDuration = 24 * time.Hour

// CLITokenDuration is the lifetime of an opaque CLI bearer token.
const CLITokenDuration = 30 * 24 * time.Hour

// CreateSession mints a session of the given kind for a user. The token
// is 32 random bytes hex-encoded, opaque to the client.
func (s *GORMStore) CreateSession(ctx context.Context, userID string, kind models.SessionKind) (*models.Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}

	duration := WebSessionDuration
	if kind == models.SessionKindCLI {
		duration = CLITokenDuration
	}

	session := &models.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     hex.EncodeToString(buf),
		Kind:      string(kind),
		ExpiresAt: time.Now().Add(duration),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetSessionByToken retrieves a live session. Expired sessions are
// reported as ErrSessionExpired and deleted opportunistically.
func (s *GORMStore) GetSessionByToken(ctx context.Context, token string) (*models.Session, error) {
	session, err := getByField[models.Session](s.db, ctx, "token", token, models.ErrSessionNotFound)
	if err != nil {
		return nil, err
	}
	if session.Expired() {
		_ = s.db.WithContext(ctx).Delete(session).Error
		return nil, models.ErrSessionExpired
	}
	return session, nil
}

// DeleteSession removes a session by token (logout).
func (s *GORMStore) DeleteSession(ctx context.Context, token string) error {
	result := s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrSessionNotFound
	}
	return nil
}

// PruneExpiredSessions deletes every session past its expiry. Run
// periodically by the server.
func (s *GORMStore) PruneExpiredSessions(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
