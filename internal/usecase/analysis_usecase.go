package usecase

import (
	"context"
	stderrors "errors"
	"time"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/repository"
	"printlab/internal/infrastructure/analyzer"
	"printlab/pkg/errors"
	"printlab/pkg/logger"

	"github.com/google/uuid"
)

type AnalysisUseCase struct {
	assetRepo  repository.FileAssetRepository
	resultRepo repository.AnalysisResultRepository
	errorRepo  repository.FileErrorRepository
	resolver   AnalyzerResolver
	runner     ProcessRunner
	storage    FileStorage
	publisher  StatusPublisher
	timeout    time.Duration
}

func NewAnalysisUseCase(
	assetRepo repository.FileAssetRepository,
	resultRepo repository.AnalysisResultRepository,
	errorRepo repository.FileErrorRepository,
	resolver AnalyzerResolver,
	runner ProcessRunner,
	storage FileStorage,
	publisher StatusPublisher,
	timeout time.Duration,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		assetRepo:  assetRepo,
		resultRepo: resultRepo,
		errorRepo:  errorRepo,
		resolver:   resolver,
		runner:     runner,
		storage:    storage,
		publisher:  publisher,
		timeout:    timeout,
	}
}

// Analyze drives one asset through analysis end to end. A precondition
// failure leaves the asset untouched; any failure after the claim records a
// FileError, flips the asset to failed, and is re-raised to the caller.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, assetID string) (*entity.AnalysisResult, error) {
	asset, err := uc.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if asset.Status != entity.StatusUploaded {
		return nil, errors.InvalidState("asset must be in uploaded state to analyze, current: " + asset.Status)
	}

	// Atomic claim: losing the race means another worker owns this run
	if err := uc.assetRepo.ClaimForProcessing(ctx, asset.ID, entity.StatusUploaded, entity.StatusProcessing); err != nil {
		return nil, err
	}
	uc.publish(asset.ID, entity.StatusProcessing)

	result, err := uc.runAnalysis(ctx, asset)
	if err != nil {
		uc.recordFailure(ctx, asset.ID, err)
		return nil, err
	}

	return result, nil
}

// Reanalyze is the explicit retry path: it wipes the previous result and
// error history, resets the asset to uploaded, then analyzes again.
func (uc *AnalysisUseCase) Reanalyze(ctx context.Context, assetID string) (*entity.AnalysisResult, error) {
	asset, err := uc.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if !asset.CanReanalyze() {
		return nil, errors.InvalidState("asset cannot be reanalyzed from state " + asset.Status)
	}

	if err := uc.resultRepo.Delete(ctx, asset.ID); err != nil {
		return nil, err
	}
	if err := uc.errorRepo.DeleteByAssetID(ctx, asset.ID); err != nil {
		return nil, err
	}
	if err := uc.assetRepo.UpdateStatus(ctx, asset.ID, entity.StatusUploaded, nil); err != nil {
		return nil, err
	}
	uc.publish(asset.ID, entity.StatusUploaded)

	return uc.Analyze(ctx, assetID)
}

func (uc *AnalysisUseCase) runAnalysis(ctx context.Context, asset *entity.FileAsset) (*entity.AnalysisResult, error) {
	resolved, err := uc.resolver.Resolve(asset.Extension)
	if err != nil {
		return nil, err
	}

	filePath, err := uc.storage.Resolve(asset)
	if err != nil {
		return nil, errors.Internal("Failed to resolve storage path", err)
	}
	if !uc.storage.Exists(asset) {
		return nil, errors.FileMissing(filePath)
	}

	logger.Info("Analyzing asset %s with %s analyzer", asset.ID, resolved.Type)

	runResult, err := uc.runner.Run(ctx, analyzer.RunSpec{
		Path:    resolved.Interpreter,
		Args:    []string{resolved.ScriptPath, filePath},
		Timeout: uc.timeout,
	})
	if err != nil {
		return nil, err
	}

	output, raw, err := analyzer.ParseOutput(runResult.Stdout, runResult.Stderr)
	if err != nil {
		return nil, err
	}

	analysisTimeMs := output.AnalysisTimeMs
	if analysisTimeMs == 0 {
		analysisTimeMs = runResult.Duration.Milliseconds()
	}

	result := &entity.AnalysisResult{
		AssetID:        asset.ID,
		AnalyzerType:   resolved.Type,
		Dimensions:     entity.NormalizeDimensions(output.Dimensions),
		Volume:         output.Volume,
		SurfaceArea:    output.Area,
		LayerCount:     output.Layers,
		Metadata:       output.Metadata,
		AnalysisTimeMs: analysisTimeMs,
		Raw:            raw,
		CreatedAt:      time.Now(),
	}

	if err := uc.resultRepo.Replace(ctx, result); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := uc.assetRepo.UpdateStatus(ctx, asset.ID, entity.StatusProcessed, &now); err != nil {
		return nil, err
	}
	uc.publish(asset.ID, entity.StatusProcessed)

	logger.Info("Analysis of asset %s completed in %dms", asset.ID, analysisTimeMs)

	return result, nil
}

// recordFailure persists the failure and flips the asset to failed. The
// original error still propagates to the caller.
func (uc *AnalysisUseCase) recordFailure(ctx context.Context, assetID string, cause error) {
	message := cause.Error()
	trace := ""
	var appErr *errors.AppError
	if stderrors.As(cause, &appErr) {
		message = appErr.Message
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
		logger.LogAnalysisError(assetID, "record-error", err)
	}

	now := time.Now()
	if err := uc.assetRepo.UpdateStatus(ctx, assetID, entity.StatusFailed, &now); err != nil {
		logger.LogAnalysisError(assetID, "update-status", err)
	}
	uc.publish(assetID, entity.StatusFailed)
}

func (uc *AnalysisUseCase) publish(assetID, status string) {
	if uc.publisher != nil {
		uc.publisher.PublishStatus(assetID, status)
	}
}
