package usecase

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/repository"
	"printlab/pkg/logger"

	"github.com/google/uuid"
)

type FileUseCase struct {
	assetRepo   repository.FileAssetRepository
	resultRepo  repository.AnalysisResultRepository
	errorRepo   repository.FileErrorRepository
	previewRepo repository.FilePreviewRepository
	storage     FileStorage
}

func NewFileUseCase(
	assetRepo repository.FileAssetRepository,
	resultRepo repository.AnalysisResultRepository,
	errorRepo repository.FileErrorRepository,
	previewRepo repository.FilePreviewRepository,
	storage FileStorage,
) *FileUseCase {
	return &FileUseCase{
		assetRepo:   assetRepo,
		resultRepo:  resultRepo,
		errorRepo:   errorRepo,
		previewRepo: previewRepo,
		storage:     storage,
	}
}

type UploadInput struct {
	OwnerID  string
	Filename string
	MimeType string
	Source   io.Reader
}

func (uc *FileUseCase) Upload(ctx context.Context, input UploadInput) (*entity.FileAsset, error) {
	assetID := uuid.New().String()

	saved, err := uc.storage.SaveUpload(input.OwnerID, assetID, input.Filename, input.Source)
	if err != nil {
		return nil, err
	}

	asset := &entity.FileAsset{
		ID:              assetID,
		OwnerID:         input.OwnerID,
		OriginalName:    input.Filename,
		StoredName:      saved.StoredName,
		Extension:       strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Filename), ".")),
		MimeType:        input.MimeType,
		Size:            saved.Size,
		StoragePath:     saved.StoragePath,
		StorageLocation: "local",
		Status:          entity.StatusUploaded,
		UploadedAt:      time.Now(),
	}

	if err := uc.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	logger.Info("Uploaded asset %s (%s, %d bytes)", asset.ID, asset.OriginalName, asset.Size)

	return asset, nil
}

// FileDetail is the full stored state of an asset: the record plus its
// analysis result, error history, and previews.
type FileDetail struct {
	Asset    *entity.FileAsset      `json:"asset"`
	Result   *entity.AnalysisResult `json:"result,omitempty"`
	Errors   []*entity.FileError    `json:"errors,omitempty"`
	Previews []*entity.FilePreview  `json:"previews,omitempty"`
}

func (uc *FileUseCase) Get(ctx context.Context, assetID string) (*FileDetail, error) {
	asset, err := uc.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	detail := &FileDetail{Asset: asset}

	if result, err := uc.resultRepo.GetByAssetID(ctx, assetID); err == nil {
		detail.Result = result
	}

	fileErrors, err := uc.errorRepo.ListByAssetID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	detail.Errors = fileErrors

	previews, err := uc.previewRepo.ListByAssetID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	detail.Previews = previews

	return detail, nil
}

func (uc *FileUseCase) List(ctx context.Context, limit, offset int) ([]*entity.FileAsset, int64, error) {
	return uc.assetRepo.List(ctx, limit, offset)
}

// Delete cascades: previews (records and image files), errors, the analysis
// result, the asset record, and finally the on-disk files.
func (uc *FileUseCase) Delete(ctx context.Context, assetID string) error {
	asset, err := uc.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return err
	}

	previews, err := uc.previewRepo.ListByAssetID(ctx, assetID)
	if err != nil {
		return err
	}
	for _, preview := range previews {
		if err := uc.storage.DeletePreview(preview.ImagePath); err != nil {
			logger.Warn("Failed to delete preview image %s: %v", preview.ImagePath, err)
		}
	}
	if err := uc.previewRepo.DeleteByAssetID(ctx, assetID); err != nil {
		return err
	}

	if err := uc.errorRepo.DeleteByAssetID(ctx, assetID); err != nil {
		return err
	}
	if err := uc.resultRepo.Delete(ctx, assetID); err != nil {
		return err
	}
	if err := uc.assetRepo.Delete(ctx, assetID); err != nil {
		return err
	}

	return uc.storage.DeleteAsset(asset)
}
