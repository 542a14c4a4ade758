package repository

import (
	"context"

	"printlab/internal/domain/entity"
)

type AnalysisResultRepository interface {
	GetByAssetID(ctx context.Context, assetID string) (*entity.AnalysisResult, error)
	// Replace overwrites any existing result for the asset wholesale; results
	// are never merged.
	Replace(ctx context.Context, result *entity.AnalysisResult) error
	Delete(ctx context.Context, assetID string) error
}
