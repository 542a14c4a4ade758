package repository

import (
	"context"
	"time"

	"printlab/internal/domain/entity"
)

type FileAssetRepository interface {
	Create(ctx context.Context, asset *entity.FileAsset) error
	GetByID(ctx context.Context, id string) (*entity.FileAsset, error)
	List(ctx context.Context, limit, offset int) ([]*entity.FileAsset, int64, error)
	ListByStatus(ctx context.Context, status string) ([]*entity.FileAsset, error)
	UpdateStatus(ctx context.Context, id, status string, processedAt *time.Time) error
	// ClaimForProcessing atomically transitions status from expected to next,
	// failing with INVALID_STATE if another caller got there first. This is
	// the single-writer discipline for analysis runs.
	ClaimForProcessing(ctx context.Context, id, expected, next string) error
	Delete(ctx context.Context, id string) error
}
