package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/repository"
	"printlab/internal/domain/service"
	"printlab/pkg/errors"
	"printlab/pkg/logger"

	"github.com/google/uuid"
)

type PreviewUseCase struct {
	assetRepo   repository.FileAssetRepository
	previewRepo repository.FilePreviewRepository
	errorRepo   repository.FileErrorRepository
	storage     FileStorage
	primary     service.PreviewRenderer
	fallback    service.PreviewRenderer
	width       int
	height      int
}

func NewPreviewUseCase(
	assetRepo repository.FileAssetRepository,
	previewRepo repository.FilePreviewRepository,
	errorRepo repository.FileErrorRepository,
	storage FileStorage,
	primary service.PreviewRenderer,
	fallback service.PreviewRenderer,
	width, height int,
) *PreviewUseCase {
	return &PreviewUseCase{
		assetRepo:   assetRepo,
		previewRepo: previewRepo,
		errorRepo:   errorRepo,
		storage:     storage,
		primary:     primary,
		fallback:    fallback,
		width:       width,
		height:      height,
	}
}

// GeneratePreview renders and stores a preview image for (asset, renderType).
// An existing preview is returned as-is with no render call, making repeated
// calls idempotent. Failures after the asset loads are recorded as FileErrors
// and re-raised; the asset's status is never touched.
func (uc *PreviewUseCase) GeneratePreview(ctx context.Context, assetID, renderType string) (*entity.FilePreview, error) {
	if !entity.IsValidRenderType(renderType) {
		return nil, errors.InvalidRenderType(renderType)
	}

	if existing, err := uc.previewRepo.GetByAssetAndType(ctx, assetID, renderType); err == nil {
		logger.Debug("Preview cache hit for asset %s type %s", assetID, renderType)
		return existing, nil
	}

	asset, err := uc.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	preview, err := uc.render(ctx, asset, renderType)
	if err != nil {
		uc.recordFailure(ctx, asset.ID, renderType, err)
		return nil, err
	}

	return preview, nil
}

// SweepSummary reports the outcome of a missing-previews sweep.
type SweepSummary struct {
	Assets    int `json:"assets"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// GenerateMissing walks every asset in the given status and generates only
// the render types that do not already have a preview. Per-asset failures are
// recorded and the sweep continues.
func (uc *PreviewUseCase) GenerateMissing(ctx context.Context, status string, renderTypes []string) (*SweepSummary, error) {
	for _, renderType := range renderTypes {
		if !entity.IsValidRenderType(renderType) {
			return nil, errors.InvalidRenderType(renderType)
		}
	}

	assets, err := uc.assetRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	summary := &SweepSummary{Assets: len(assets)}
	for _, asset := range assets {
		existing, err := uc.previewRepo.ListByAssetID(ctx, asset.ID)
		if err != nil {
			summary.Failed++
			continue
		}

		have := make(map[string]bool, len(existing))
		for _, preview := range existing {
			have[preview.RenderType] = true
		}

		for _, renderType := range renderTypes {
			if have[renderType] {
				summary.Skipped++
				continue
			}

			if _, err := uc.render(ctx, asset, renderType); err != nil {
				logger.Warn("Sweep: preview %s for asset %s failed: %v", renderType, asset.ID, err)
				uc.recordFailure(ctx, asset.ID, renderType, err)
				summary.Failed++
				continue
			}
			summary.Generated++
		}
	}

	return summary, nil
}

func (uc *PreviewUseCase) ListByAsset(ctx context.Context, assetID string) ([]*entity.FilePreview, error) {
	return uc.previewRepo.ListByAssetID(ctx, assetID)
}

// DeletePreview removes the record and its backing image file.
func (uc *PreviewUseCase) DeletePreview(ctx context.Context, previewID string) error {
	preview, err := uc.previewRepo.GetByID(ctx, previewID)
	if err != nil {
		return err
	}

	if err := uc.previewRepo.Delete(ctx, previewID); err != nil {
		return err
	}

	return uc.storage.DeletePreview(preview.ImagePath)
}

func (uc *PreviewUseCase) render(ctx context.Context, asset *entity.FileAsset, renderType string) (*entity.FilePreview, error) {
	filePath, err := uc.storage.Resolve(asset)
	if err != nil {
		return nil, errors.Internal("Failed to resolve storage path", err)
	}
	if !uc.storage.Exists(asset) {
		return nil, errors.FileMissing(filePath)
	}

	req := service.RenderRequest{
		FilePath:    filePath,
		PreviewType: renderType,
		Width:       uc.width,
		Height:      uc.height,
		Format:      "png",
	}

	rendered, err := uc.callBackends(ctx, req)
	if err != nil {
		return nil, err
	}

	imagePath, err := uc.storage.WritePreview(asset, renderType, rendered.Image)
	if err != nil {
		return nil, errors.Internal("Failed to store preview image", err)
	}

	preview := &entity.FilePreview{
		ID:         uuid.New().String(),
		AssetID:    asset.ID,
		RenderType: renderType,
		ImagePath:  imagePath,
		CreatedAt:  time.Now(),
	}
	if err := uc.previewRepo.Create(ctx, preview); err != nil {
		return nil, err
	}

	return preview, nil
}

// callBackends tries the primary renderer first and falls back to the
// secondary only when the primary fails. When both fail the error names both
// backends and their reasons.
func (uc *PreviewUseCase) callBackends(ctx context.Context, req service.RenderRequest) (*service.RenderResult, error) {
	rendered, primaryErr := uc.primary.Render(ctx, req)
	if primaryErr == nil {
		return rendered, nil
	}

	if uc.fallback == nil {
		return nil, primaryErr
	}

	logger.Warn("Primary preview backend %s failed, trying %s: %v", uc.primary.Name(), uc.fallback.Name(), primaryErr)

	rendered, fallbackErr := uc.fallback.Render(ctx, req)
	if fallbackErr == nil {
		return rendered, nil
	}

	return nil, errors.RenderServiceError(
		fmt.Sprintf("all preview backends failed: %s: %v; %s: %v",
			uc.primary.Name(), primaryErr, uc.fallback.Name(), fallbackErr),
		nil,
	)
}

func (uc *PreviewUseCase) recordFailure(ctx context.Context, assetID, renderType string, cause error) {
	message := fmt.Sprintf("preview generation (%s) failed: %s", renderType, cause.Error())
	trace := ""
	var appErr *errors.AppError
	if stderrors.As(cause, &appErr) {
		message = fmt.Sprintf("preview generation (%s) failed: %s", renderType, appErr.Message)
		if appErr.Err != nil {
			trace = appErr.Err.Error()
		}
	}

	fileError := &entity.FileError{
		ID:        uuid.New().String(),
		AssetID:   assetID,
		Message:   message,
		Trace:     trace,
		CreatedAt: time.Now(),
	}
	if err := uc.errorRepo.Append(ctx, fileError); err != nil {
		logger.LogAnalysisError(assetID, "record-preview-error", err)
	}
}
