package store

import (
	"context"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
)

// GetFile retrieves a file by ID.
func (s *GORMStore) GetFile(ctx context.Context, id string) (*models.File, error) {
	return getByField[models.File](s.db, ctx, "id", id, models.ErrFileNotFound)
}

// GetFileByName retrieves a live file in a library by its on-disk basename.
func (s *GORMStore) GetFileByName(ctx context.Context, libraryID, fileName string) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).
		Where("library_id = ? AND file_name = ?", libraryID, fileName).
		First(&file).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrFileNotFound)
	}
	return &file, nil
}

// ListFiles returns all live files of a library, newest upload first.
func (s *GORMStore) ListFiles(ctx context.Context, libraryID string) ([]*models.File, error) {
	return listWhere[models.File](s.db, ctx, "uploaded_at DESC", "library_id = ?", libraryID)
}

// CreateFile inserts a file row.
func (s *GORMStore) CreateFile(ctx context.Context, file *models.File) (string, error) {
	return createWithID(s.db, ctx, file,
		func(f *models.File, id string) { f.ID = id }, file.ID, models.ErrDuplicateFile)
}

// UpdateFileMetadata replaces the extracted metadata columns of a file
// after (re)processing.
func (s *GORMStore) UpdateFileMetadata(ctx context.Context, file *models.File) error {
	result := s.db.WithContext(ctx).
		Model(&models.File{}).
		Where("id = ?", file.ID).
		Select("Title", "Author", "Description", "PDFPageCount", "EpubChapterCount",
			"ImageWidth", "ImageHeight", "CoverImagePath", "ContentPreview",
			"ProcessingStatus", "ProcessingError", "FileHash", "Size").
		Updates(file)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFileNotFound
	}
	return nil
}

// SoftDeleteFile marks a file deleted.
func (s *GORMStore) SoftDeleteFile(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.File{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrFileNotFound
	}
	return nil
}

// FileOwnedBy retrieves a file only when its library belongs to the user.
func (s *GORMStore) FileOwnedBy(ctx context.Context, fileID, userID string) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).
		Joins("JOIN libraries ON libraries.id = files.library_id").
		Where("files.id = ? AND libraries.user_id = ? AND libraries.deleted_at IS NULL", fileID, userID).
		First(&file).Error
	if err != nil {
		return nil, convertNotFoundError(err, models.ErrFileNotFound)
	}
	return &file, nil
}
