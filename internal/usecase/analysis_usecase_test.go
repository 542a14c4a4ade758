package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printlab/internal/domain/entity"
	"printlab/internal/infrastructure/analyzer"
	"printlab/pkg/errors"
)

const stlOutput = `{"dimensions":{"width":10,"height":10,"depth":5},"volume":500.0,"area":350.0,"metadata":{"triangles":12,"vertices":24,"format":"ASCII"},"analysis_time_ms":245}`

func uploadedAsset() *entity.FileAsset {
	return &entity.FileAsset{
		ID:          "asset-1",
		OwnerID:     "owner-1",
		Extension:   "stl",
		StoragePath: "owner-1/asset-1/part.stl",
		Status:      entity.StatusUploaded,
	}
}

func stlResolver() *stubResolver {
	return &stubResolver{
		analyzer: &analyzer.Analyzer{
			Type:        "stl",
			ScriptPath:  "/opt/analyzers/analyze_stl.py",
			Interpreter: "/usr/bin/python3",
		},
	}
}

func runnerReturning(stdout string) *stubRunner {
	return &stubRunner{
		run: func(spec analyzer.RunSpec) (*analyzer.RunResult, error) {
			return &analyzer.RunResult{Stdout: stdout, Duration: 100 * time.Millisecond}, nil
		},
	}
}

func newAnalysisFixture(asset *entity.FileAsset, runner *stubRunner) (*AnalysisUseCase, *fakeAssetRepo, *fakeResultRepo, *fakeErrorRepo, *stubPublisher) {
	assetRepo := newFakeAssetRepo(asset)
	resultRepo := newFakeResultRepo()
	errorRepo := newFakeErrorRepo()
	publisher := &stubPublisher{}

	uc := NewAnalysisUseCase(
		assetRepo, resultRepo, errorRepo,
		stlResolver(), runner, newStubStorage(true), publisher,
		time.Minute,
	)
	return uc, assetRepo, resultRepo, errorRepo, publisher
}

func TestAnalyze_Success(t *testing.T) {
	asset := uploadedAsset()
	uc, assetRepo, resultRepo, _, publisher := newAnalysisFixture(asset, runnerReturning(stlOutput))

	result, err := uc.Analyze(context.Background(), asset.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusProcessed, assetRepo.status(asset.ID))

	require.NotNil(t, result.Volume)
	assert.Equal(t, 500.0, *result.Volume)
	require.NotNil(t, result.SurfaceArea)
	assert.Equal(t, 350.0, *result.SurfaceArea)
	assert.Nil(t, result.LayerCount)
	assert.Equal(t, "stl", result.AnalyzerType)
	assert.Equal(t, int64(245), result.AnalysisTimeMs)

	triangles, ok := result.Metadata.GetInt("triangles")
	require.True(t, ok)
	assert.Equal(t, 12, triangles)

	// width/height/depth get x/y/z aliases
	assert.Equal(t, 10.0, result.Dimensions["x"])
	assert.Equal(t, 10.0, result.Dimensions["y"])
	assert.Equal(t, 5.0, result.Dimensions["z"])

	assert.Equal(t, 1, resultRepo.count())

	stored, err := assetRepo.GetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ProcessedAt)

	assert.Equal(t, []string{entity.StatusProcessing, entity.StatusProcessed}, publisher.events)
}

func TestAnalyze_InvalidState_NoMutation(t *testing.T) {
	for _, status := range []string{
		entity.StatusProcessing, entity.StatusProcessed,
		entity.StatusAnalyzed, entity.StatusFailed, entity.StatusError,
	} {
		asset := uploadedAsset()
		asset.Status = status
		uc, assetRepo, resultRepo, errorRepo, _ := newAnalysisFixture(asset, runnerReturning(stlOutput))

		_, err := uc.Analyze(context.Background(), asset.ID)
		require.Error(t, err, "status %s", status)
		assert.True(t, errors.Is(err, "INVALID_STATE"))

		assert.Equal(t, 0, assetRepo.mutations, "status %s must not mutate", status)
		assert.Equal(t, 0, resultRepo.count())
		fileErrors, _ := errorRepo.ListByAssetID(context.Background(), asset.ID)
		assert.Empty(t, fileErrors)
	}
}

func TestAnalyze_SemanticAnalyzerError(t *testing.T) {
	asset := uploadedAsset()
	uc, assetRepo, resultRepo, errorRepo, _ := newAnalysisFixture(asset, runnerReturning(`{"error":"corrupt header"}`))

	_, err := uc.Analyze(context.Background(), asset.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "ANALYZER_ERROR"))

	assert.Equal(t, entity.StatusFailed, assetRepo.status(asset.ID))
	assert.Equal(t, 0, resultRepo.count())

	fileErrors, _ := errorRepo.ListByAssetID(context.Background(), asset.ID)
	require.Len(t, fileErrors, 1)
	assert.Contains(t, fileErrors[0].Message, "corrupt header")
}

func TestAnalyze_Timeout(t *testing.T) {
	asset := uploadedAsset()
	runner := &stubRunner{
		run: func(spec analyzer.RunSpec) (*analyzer.RunResult, error) {
			return &analyzer.RunResult{}, errors.ProcessTimeout("process exceeded timeout of 1m0s")
		},
	}
	uc, assetRepo, resultRepo, errorRepo, _ := newAnalysisFixture(asset, runner)

	_, err := uc.Analyze(context.Background(), asset.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "PROCESS_TIMEOUT"))

	assert.Equal(t, entity.StatusFailed, assetRepo.status(asset.ID))
	assert.Equal(t, 0, resultRepo.count())

	fileErrors, _ := errorRepo.ListByAssetID(context.Background(), asset.ID)
	require.Len(t, fileErrors, 1)
}

func TestAnalyze_UnparsableOutput(t *testing.T) {
	asset := uploadedAsset()
	uc, assetRepo, resultRepo, errorRepo, _ := newAnalysisFixture(asset, runnerReturning("Traceback (most recent call last)"))

	_, err := uc.Analyze(context.Background(), asset.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_OUTPUT_FORMAT"))

	assert.Equal(t, entity.StatusFailed, assetRepo.status(asset.ID))
	assert.Equal(t, 0, resultRepo.count())
	fileErrors, _ := errorRepo.ListByAssetID(context.Background(), asset.ID)
	require.Len(t, fileErrors, 1)
}

func TestAnalyze_FileMissing(t *testing.T) {
	asset := uploadedAsset()
	assetRepo := newFakeAssetRepo(asset)
	resultRepo := newFakeResultRepo()
	errorRepo := newFakeErrorRepo()

	uc := NewAnalysisUseCase(
		assetRepo, resultRepo, errorRepo,
		stlResolver(), runnerReturning(stlOutput), newStubStorage(false), nil,
		time.Minute,
	)

	_, err := uc.Analyze(context.Background(), asset.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FILE_MISSING"))
	assert.Equal(t, entity.StatusFailed, assetRepo.status(asset.ID))
}

func TestAnalyze_SecondCallRejected(t *testing.T) {
	asset := uploadedAsset()
	uc, _, resultRepo, _, _ := newAnalysisFixture(asset, runnerReturning(stlOutput))

	_, err := uc.Analyze(context.Background(), asset.ID)
	require.NoError(t, err)

	_, err = uc.Analyze(context.Background(), asset.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATE"))

	// Still exactly one result
	assert.Equal(t, 1, resultRepo.count())
}

func TestReanalyze_DestructiveThenAdditive(t *testing.T) {
	asset := uploadedAsset()
	asset.Status = entity.StatusFailed
	uc, assetRepo, resultRepo, errorRepo, _ := newAnalysisFixture(asset, runnerReturning(stlOutput))

	// Seed prior state: a stale result and two accumulated errors
	resultRepo.Replace(context.Background(), &entity.AnalysisResult{AssetID: asset.ID, AnalyzerType: "stl"})
	errorRepo.Append(context.Background(), &entity.FileError{ID: "e1", AssetID: asset.ID, Message: "old failure"})
	errorRepo.Append(context.Background(), &entity.FileError{ID: "e2", AssetID: asset.ID, Message: "older failure"})

	result, err := uc.Reanalyze(context.Background(), asset.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusProcessed, assetRepo.status(asset.ID))
	assert.Equal(t, 1, resultRepo.count())
	require.NotNil(t, result.Volume)

	// Prior error history is gone
	fileErrors, _ := errorRepo.ListByAssetID(context.Background(), asset.ID)
	assert.Empty(t, fileErrors)
}

func TestReanalyze_InvalidFromUploaded(t *testing.T) {
	asset := uploadedAsset()
	uc, _, _, _, _ := newAnalysisFixture(asset, runnerReturning(stlOutput))

	_, err := uc.Reanalyze(context.Background(), asset.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATE"))
}

func TestReanalyze_InvalidFromProcessing(t *testing.T) {
	asset := uploadedAsset()
	asset.Status = entity.StatusProcessing
	uc, _, _, errorRepo, _ := newAnalysisFixture(asset, runnerReturning(stlOutput))

	// A crash mid-analysis leaves processing; recovery is explicit, not automatic
	_, err := uc.Reanalyze(context.Background(), asset.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "INVALID_STATE"))

	fileErrors, _ := errorRepo.ListByAssetID(context.Background(), asset.ID)
	assert.Empty(t, fileErrors)
}

func TestReanalyze_FailurePreservesNewError(t *testing.T) {
	asset := uploadedAsset()
	asset.Status = entity.StatusFailed
	uc, assetRepo, resultRepo, errorRepo, _ := newAnalysisFixture(asset, runnerReturning(`{"error":"corrupt header"}`))

	errorRepo.Append(context.Background(), &entity.FileError{ID: "e1", AssetID: asset.ID, Message: "old failure"})

	_, err := uc.Reanalyze(context.Background(), asset.ID)
	require.Error(t, err)

	assert.Equal(t, entity.StatusFailed, assetRepo.status(asset.ID))
	assert.Equal(t, 0, resultRepo.count())

	// Only the fresh failure remains
	fileErrors, _ := errorRepo.ListByAssetID(context.Background(), asset.ID)
	require.Len(t, fileErrors, 1)
	assert.Contains(t, fileErrors[0].Message, "corrupt header")
}
