package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"printlab/internal/domain/entity"
	"printlab/pkg/logger"
)

// LocalStorage manages the on-disk layout for uploads and generated preview
// images. Files live under <root>/<ownerID>/<assetID>/ so concurrent workers
// never collide on paths. Analyzer subprocesses require plain POSIX paths,
// which is why storage is local rather than an object store.
type LocalStorage struct {
	uploadRoot  string
	previewRoot string
}

func NewLocalStorage(uploadRoot, previewRoot string) (*LocalStorage, error) {
	for _, dir := range []string{uploadRoot, previewRoot} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage root %s: %w", dir, err)
		}
	}
	return &LocalStorage{
		uploadRoot:  uploadRoot,
		previewRoot: previewRoot,
	}, nil
}

type SaveResult struct {
	StoragePath string
	StoredName  string
	Size        int64
}

// SaveUpload streams an uploaded file to disk and returns its storage path
// relative to the upload root.
func (s *LocalStorage) SaveUpload(ownerID, assetID, filename string, src io.Reader) (*SaveResult, error) {
	dir := filepath.Join(s.uploadRoot, ownerID, assetID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}

	storedName := filepath.Base(filename)
	dst, err := os.Create(filepath.Join(dir, storedName))
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	logger.Debug("Stored upload %s (%d bytes)", storedName, size)

	return &SaveResult{
		StoragePath: filepath.Join(ownerID, assetID, storedName),
		StoredName:  storedName,
		Size:        size,
	}, nil
}

// Resolve returns the absolute path of the asset's backing file.
func (s *LocalStorage) Resolve(asset *entity.FileAsset) (string, error) {
	return filepath.Abs(filepath.Join(s.uploadRoot, asset.StoragePath))
}

func (s *LocalStorage) Exists(asset *entity.FileAsset) bool {
	path, err := s.Resolve(asset)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// PreviewPath returns the deterministic relative path for a preview image.
func (s *LocalStorage) PreviewPath(asset *entity.FileAsset, renderType string) string {
	return filepath.Join(asset.OwnerID, asset.ID, renderType+".png")
}

// WritePreview stores decoded image bytes at the preview path and returns the
// relative path recorded on the FilePreview row.
func (s *LocalStorage) WritePreview(asset *entity.FileAsset, renderType string, image []byte) (string, error) {
	relPath := s.PreviewPath(asset, renderType)
	absPath := filepath.Join(s.previewRoot, relPath)

	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}
	if err := os.WriteFile(absPath, image, 0o644); err != nil {
		return "", fmt.Errorf("failed to write preview image: %w", err)
	}

	return relPath, nil
}

// DeletePreview removes the backing image file; the record lifecycle owns the
// file lifecycle.
func (s *LocalStorage) DeletePreview(relPath string) error {
	err := os.Remove(filepath.Join(s.previewRoot, relPath))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete preview image: %w", err)
	}
	return nil
}

// DeleteAsset removes the asset's upload and preview directories entirely.
func (s *LocalStorage) DeleteAsset(asset *entity.FileAsset) error {
	uploadDir := filepath.Join(s.uploadRoot, asset.OwnerID, asset.ID)
	previewDir := filepath.Join(s.previewRoot, asset.OwnerID, asset.ID)

	for _, dir := range []string{uploadDir, previewDir} {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("failed to remove %s: %w", dir, err)
		}
	}
	return nil
}
