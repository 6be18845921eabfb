package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// GetUser retrieves a user by username.
func (s *GORMStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "username", username, models.ErrUserNotFound)
}

// GetUserByID retrieves a user by ID.
func (s *GORMStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return getByField[models.User](s.db, ctx, "id", id, models.ErrUserNotFound)
}

// ListUsers returns all users ordered by username.
func (s *GORMStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return listWhere[models.User](s.db, ctx, "username ASC", "")
}

// CreateUser inserts a new user, generating an ID when absent.
func (s *GORMStore) CreateUser(ctx context.Context, user *models.User) (string, error) {
	if user.StorageQuota == 0 {
		user.StorageQuota = models.DefaultStorageQuota
	}
	return createWithID(s.db, ctx, user,
		func(u *models.User, id string) { u.ID = id }, user.ID, models.ErrDuplicateUser)
}

// DeleteUser removes a user and everything strongly owned by it: its
// libraries cascade to pages, files, workspaces, workspace items and
// links. The caller is responsible for archiving the on-disk tree first.
func (s *GORMStore) DeleteUser(ctx context.Context, username string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			return convertNotFoundError(err, models.ErrUserNotFound)
		}

		var libraries []models.Library
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Find(&libraries).Error; err != nil {
			return err
		}
		for _, lib := range libraries {
			if err := deleteLibraryRows(tx, lib.ID); err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
}

// UpdatePassword replaces a user's password hash.
func (s *GORMStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// UpdateStorageQuota changes a user's storage quota in bytes.
func (s *GORMStore) UpdateStorageQuota(ctx context.Context, username string, quota int64) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("storage_quota", quota)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// UpdateLastLogin stamps the user's last login time.
func (s *GORMStore) UpdateLastLogin(ctx context.Context, username string, timestamp time.Time) error {
	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		Update("last_login", timestamp)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// ValidateCredentials checks a username/password pair. A missing user and
// a wrong password both yield ErrInvalidCredentials so the response does
// not leak which usernames exist.
func (s *GORMStore) ValidateCredentials(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

// StorageUsed derives the bytes a user currently consumes: uploaded file
// sizes plus page body lengths, excluding soft-deleted rows. Derived on
// demand rather than cached, so it is eventually consistent after
// soft-deletes by design of the quota model.
func (s *GORMStore) StorageUsed(ctx context.Context, userID string) (int64, error) {
	var fileBytes, pageBytes int64

	err := s.db.WithContext(ctx).
		Model(&models.File{}).
		Select("COALESCE(SUM(files.size), 0)").
		Joins("JOIN libraries ON libraries.id = files.library_id").
		Where("libraries.user_id = ? AND libraries.deleted_at IS NULL", userID).
		Scan(&fileBytes).Error
	if err != nil {
		return 0, err
	}

	err = s.db.WithContext(ctx).
		Model(&models.Page{}).
		Select("COALESCE(SUM(LENGTH(pages.content)), 0)").
		Joins("JOIN libraries ON libraries.id = pages.library_id").
		Where("libraries.user_id = ? AND libraries.deleted_at IS NULL", userID).
		Scan(&pageBytes).Error
	if err != nil {
		return 0, err
	}

	return fileBytes + pageBytes, nil
}
