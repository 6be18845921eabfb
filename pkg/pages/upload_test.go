package pages

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loreleaf/loreleaf/pkg/metadata/models"
	"github.com/loreleaf/loreleaf/pkg/processor"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newUploader(t *testing.T) (*fixture, *Uploader) {
	t.Helper()
	f := newFixture(t)
	return f, NewUploader(f.store, f.svc, processor.NewRegistry())
}

func TestUpload(t *testing.T) {
	f, up := newUploader(t)
	ctx := context.Background()
	data := pngBytes(t, 8, 6)

	result, err := up.Upload(ctx, f.user.ID, f.lib.ID, "photo.png", bytes.NewReader(data), int64(len(data)), DuplicateSkip)
	require.NoError(t, err)
	require.NotNil(t, result.File)
	assert.False(t, result.Skipped)

	t.Run("bytes on disk", func(t *testing.T) {
		got, err := os.ReadFile(result.File.Path)
		require.NoError(t, err)
		assert.Equal(t, data, got)
		assert.Equal(t, filepath.Base(result.File.Path), result.File.FileName)
	})

	t.Run("processed metadata persisted", func(t *testing.T) {
		file, err := f.store.GetFile(ctx, result.File.ID)
		require.NoError(t, err)
		assert.Equal(t, string(models.ProcessingComplete), file.ProcessingStatus)
		assert.Equal(t, 8, file.ImageWidth)
		assert.Equal(t, 6, file.ImageHeight)
	})

	t.Run("fronting page created", func(t *testing.T) {
		require.NotNil(t, result.Page)
		assert.Equal(t, string(models.PageTypeFile), result.Page.PageType)
		require.NotNil(t, result.Page.FileID)
		assert.Equal(t, result.File.ID, *result.Page.FileID)
	})

	t.Run("unsupported extension rejected", func(t *testing.T) {
		_, err := up.Upload(ctx, f.user.ID, f.lib.ID, "notes.docx", bytes.NewReader(data), int64(len(data)), DuplicateSkip)
		assert.ErrorIs(t, err, models.ErrUnsupportedFileType)
	})
}

func TestUploadDuplicateModes(t *testing.T) {
	f, up := newUploader(t)
	ctx := context.Background()
	first := pngBytes(t, 2, 2)
	second := pngBytes(t, 4, 4)

	original, err := up.Upload(ctx, f.user.ID, f.lib.ID, "pic.png", bytes.NewReader(first), int64(len(first)), DuplicateSkip)
	require.NoError(t, err)

	t.Run("skip keeps the original", func(t *testing.T) {
		result, err := up.Upload(ctx, f.user.ID, f.lib.ID, "pic.png", bytes.NewReader(second), int64(len(second)), DuplicateSkip)
		require.NoError(t, err)
		assert.True(t, result.Skipped)
		assert.Equal(t, original.File.ID, result.File.ID)
		got, _ := os.ReadFile(original.File.Path)
		assert.Equal(t, first, got)
	})

	t.Run("replace overwrites in place", func(t *testing.T) {
		result, err := up.Upload(ctx, f.user.ID, f.lib.ID, "pic.png", bytes.NewReader(second), int64(len(second)), DuplicateReplace)
		require.NoError(t, err)
		assert.False(t, result.Skipped)
		assert.Equal(t, original.File.ID, result.File.ID, "row is reused")
		assert.Nil(t, result.Page, "fronting page is not duplicated")

		file, err := f.store.GetFile(ctx, original.File.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, file.ImageWidth)
	})

	t.Run("rename stores under the first free suffix", func(t *testing.T) {
		result, err := up.Upload(ctx, f.user.ID, f.lib.ID, "pic.png", bytes.NewReader(first), int64(len(first)), DuplicateRename)
		require.NoError(t, err)
		assert.Equal(t, "pic_1.png", result.File.FileName)
		require.NotNil(t, result.Page)
	})
}

func TestUploadQuota(t *testing.T) {
	f, up := newUploader(t)
	ctx := context.Background()
	data := pngBytes(t, 2, 2)

	require.NoError(t, f.store.UpdateStorageQuota(ctx, f.user.Username, 1))

	_, err := up.Upload(ctx, f.user.ID, f.lib.ID, "big.png", bytes.NewReader(data), int64(len(data)), DuplicateSkip)
	assert.ErrorIs(t, err, models.ErrQuotaExceeded)

	entries, readErr := os.ReadDir(filepath.Join(f.lib.FolderPath, "files"))
	require.NoError(t, readErr)
	for _, e := range entries {
		assert.True(t, e.IsDir(), "no bytes written past quota: %s", e.Name())
	}
}

func TestUploadSizeLimit(t *testing.T) {
	f, up := newUploader(t)
	_, err := up.Upload(context.Background(), f.user.ID, f.lib.ID, "huge.pdf", bytes.NewReader(nil), MaxUploadSize+1, DuplicateSkip)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}
