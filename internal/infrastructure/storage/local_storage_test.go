package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printlab/internal/domain/entity"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "uploads"), filepath.Join(t.TempDir(), "previews"))
	require.NoError(t, err)
	return s
}

func TestSaveUploadAndResolve(t *testing.T) {
	s := newTestStorage(t)

	saved, err := s.SaveUpload("owner-1", "asset-1", "part.stl", strings.NewReader("solid part"))
	require.NoError(t, err)
	assert.Equal(t, "part.stl", saved.StoredName)
	assert.Equal(t, int64(10), saved.Size)
	assert.Equal(t, filepath.Join("owner-1", "asset-1", "part.stl"), saved.StoragePath)

	asset := &entity.FileAsset{
		ID:          "asset-1",
		OwnerID:     "owner-1",
		StoragePath: saved.StoragePath,
	}

	assert.True(t, s.Exists(asset))

	path, err := s.Resolve(asset)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "solid part", string(content))
}

func TestExists_MissingFile(t *testing.T) {
	s := newTestStorage(t)

	asset := &entity.FileAsset{
		ID:          "asset-1",
		OwnerID:     "owner-1",
		StoragePath: filepath.Join("owner-1", "asset-1", "gone.stl"),
	}

	assert.False(t, s.Exists(asset))
}

func TestWriteAndDeletePreview(t *testing.T) {
	s := newTestStorage(t)

	asset := &entity.FileAsset{ID: "asset-1", OwnerID: "owner-1"}

	relPath, err := s.WritePreview(asset, entity.RenderType2D, []byte("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("owner-1", "asset-1", "2d.png"), relPath)

	absPath := filepath.Join(s.previewRoot, relPath)
	_, err = os.Stat(absPath)
	require.NoError(t, err)

	require.NoError(t, s.DeletePreview(relPath))
	_, err = os.Stat(absPath)
	assert.True(t, os.IsNotExist(err))

	// Deleting an already-gone file is not an error
	assert.NoError(t, s.DeletePreview(relPath))
}

func TestDeleteAsset_RemovesBothTrees(t *testing.T) {
	s := newTestStorage(t)

	saved, err := s.SaveUpload("owner-1", "asset-1", "part.stl", strings.NewReader("solid part"))
	require.NoError(t, err)

	asset := &entity.FileAsset{ID: "asset-1", OwnerID: "owner-1", StoragePath: saved.StoragePath}
	_, err = s.WritePreview(asset, entity.RenderType2D, []byte("png-bytes"))
	require.NoError(t, err)

	require.NoError(t, s.DeleteAsset(asset))

	assert.False(t, s.Exists(asset))
	_, err = os.Stat(filepath.Join(s.previewRoot, "owner-1", "asset-1"))
	assert.True(t, os.IsNotExist(err))
}
