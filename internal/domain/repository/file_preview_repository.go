package repository

import (
	"context"

	"printlab/internal/domain/entity"
)

type FilePreviewRepository interface {
	Create(ctx context.Context, preview *entity.FilePreview) error
	GetByID(ctx context.Context, id string) (*entity.FilePreview, error)
	GetByAssetAndType(ctx context.Context, assetID, renderType string) (*entity.FilePreview, error)
	ListByAssetID(ctx context.Context, assetID string) ([]*entity.FilePreview, error)
	Delete(ctx context.Context, id string) error
	DeleteByAssetID(ctx context.Context, assetID string) error
}
