package repository

import (
	"context"

	"printlab/internal/domain/entity"
)

type FileErrorRepository interface {
	Append(ctx context.Context, fileError *entity.FileError) error
	ListByAssetID(ctx context.Context, assetID string) ([]*entity.FileError, error)
	DeleteByAssetID(ctx context.Context, assetID string) error
}
