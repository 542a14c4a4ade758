package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/service"
	"printlab/internal/infrastructure/analyzer"
	"printlab/internal/infrastructure/storage"
	"printlab/pkg/errors"
)

// In-memory repository fakes. Mutations are counted so tests can assert that
// precondition failures leave the store untouched.

type fakeAssetRepo struct {
	mu        sync.Mutex
	assets    map[string]*entity.FileAsset
	mutations int
}

func newFakeAssetRepo(assets ...*entity.FileAsset) *fakeAssetRepo {
	repo := &fakeAssetRepo{assets: make(map[string]*entity.FileAsset)}
	for _, asset := range assets {
		repo.assets[asset.ID] = asset
	}
	return repo
}

func (r *fakeAssetRepo) Create(ctx context.Context, asset *entity.FileAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assets[asset.ID] = asset
	r.mutations++
	return nil
}

func (r *fakeAssetRepo) GetByID(ctx context.Context, id string) (*entity.FileAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.assets[id]
	if !ok {
		return nil, errors.NotFound("File asset", nil)
	}
	copied := *asset
	return &copied, nil
}

func (r *fakeAssetRepo) List(ctx context.Context, limit, offset int) ([]*entity.FileAsset, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var assets []*entity.FileAsset
	for _, asset := range r.assets {
		copied := *asset
		assets = append(assets, &copied)
	}
	return assets, int64(len(assets)), nil
}

func (r *fakeAssetRepo) ListByStatus(ctx context.Context, status string) ([]*entity.FileAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var assets []*entity.FileAsset
	for _, asset := range r.assets {
		if asset.Status == status {
			copied := *asset
			assets = append(assets, &copied)
		}
	}
	return assets, nil
}

func (r *fakeAssetRepo) UpdateStatus(ctx context.Context, id, status string, processedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.assets[id]
	if !ok {
		return errors.NotFound("File asset", nil)
	}
	asset.Status = status
	if processedAt != nil {
		asset.ProcessedAt = processedAt
	}
	r.mutations++
	return nil
}

func (r *fakeAssetRepo) ClaimForProcessing(ctx context.Context, id, expected, next string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.assets[id]
	if !ok {
		return errors.NotFound("File asset", nil)
	}
	if asset.Status != expected {
		return errors.InvalidState("asset is not in state " + expected)
	}
	asset.Status = next
	r.mutations++
	return nil
}

func (r *fakeAssetRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.assets, id)
	r.mutations++
	return nil
}

func (r *fakeAssetRepo) status(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.assets[id].Status
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results map[string]*entity.AnalysisResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[string]*entity.AnalysisResult)}
}

func (r *fakeResultRepo) GetByAssetID(ctx context.Context, assetID string) (*entity.AnalysisResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result, ok := r.results[assetID]
	if !ok {
		return nil, errors.NotFound("Analysis result", nil)
	}
	return result, nil
}

func (r *fakeResultRepo) Replace(ctx context.Context, result *entity.AnalysisResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.AssetID] = result
	return nil
}

func (r *fakeResultRepo) Delete(ctx context.Context, assetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, assetID)
	return nil
}

func (r *fakeResultRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

type fakeErrorRepo struct {
	mu         sync.Mutex
	fileErrors []*entity.FileError
}

func newFakeErrorRepo() *fakeErrorRepo {
	return &fakeErrorRepo{}
}

func (r *fakeErrorRepo) Append(ctx context.Context, fileError *entity.FileError) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fileErrors = append(r.fileErrors, fileError)
	return nil
}

func (r *fakeErrorRepo) ListByAssetID(ctx context.Context, assetID string) ([]*entity.FileError, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.FileError
	for _, fileError := range r.fileErrors {
		if fileError.AssetID == assetID {
			matched = append(matched, fileError)
		}
	}
	return matched, nil
}

func (r *fakeErrorRepo) DeleteByAssetID(ctx context.Context, assetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*entity.FileError
	for _, fileError := range r.fileErrors {
		if fileError.AssetID != assetID {
			kept = append(kept, fileError)
		}
	}
	r.fileErrors = kept
	return nil
}

type fakePreviewRepo struct {
	mu       sync.Mutex
	previews map[string]*entity.FilePreview
}

func newFakePreviewRepo() *fakePreviewRepo {
	return &fakePreviewRepo{previews: make(map[string]*entity.FilePreview)}
}

func (r *fakePreviewRepo) Create(ctx context.Context, preview *entity.FilePreview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.previews[preview.ID] = preview
	return nil
}

func (r *fakePreviewRepo) GetByID(ctx context.Context, id string) (*entity.FilePreview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	preview, ok := r.previews[id]
	if !ok {
		return nil, errors.NotFound("File preview", nil)
	}
	return preview, nil
}

func (r *fakePreviewRepo) GetByAssetAndType(ctx context.Context, assetID, renderType string) (*entity.FilePreview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, preview := range r.previews {
		if preview.AssetID == assetID && preview.RenderType == renderType {
			return preview, nil
		}
	}
	return nil, errors.NotFound("File preview", nil)
}

func (r *fakePreviewRepo) ListByAssetID(ctx context.Context, assetID string) ([]*entity.FilePreview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.FilePreview
	for _, preview := range r.previews {
		if preview.AssetID == assetID {
			matched = append(matched, preview)
		}
	}
	return matched, nil
}

func (r *fakePreviewRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.previews, id)
	return nil
}

func (r *fakePreviewRepo) DeleteByAssetID(ctx context.Context, assetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, preview := range r.previews {
		if preview.AssetID == assetID {
			delete(r.previews, id)
		}
	}
	return nil
}

func (r *fakePreviewRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.previews)
}

// Collaborator stubs.

type stubResolver struct {
	analyzer *analyzer.Analyzer
	err      error
}

func (s *stubResolver) Resolve(extension string) (*analyzer.Analyzer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.analyzer, nil
}

type stubRunner struct {
	calls int
	run   func(spec analyzer.RunSpec) (*analyzer.RunResult, error)
}

func (s *stubRunner) Run(ctx context.Context, spec analyzer.RunSpec) (*analyzer.RunResult, error) {
	s.calls++
	return s.run(spec)
}

type stubStorage struct {
	exists          bool
	writtenPreviews map[string][]byte
	deletedPreviews []string
}

func newStubStorage(exists bool) *stubStorage {
	return &stubStorage{
		exists:          exists,
		writtenPreviews: make(map[string][]byte),
	}
}

func (s *stubStorage) SaveUpload(ownerID, assetID, filename string, src io.Reader) (*storage.SaveResult, error) {
	size, _ := io.Copy(io.Discard, src)
	return &storage.SaveResult{
		StoragePath: ownerID + "/" + assetID + "/" + filename,
		StoredName:  filename,
		Size:        size,
	}, nil
}

func (s *stubStorage) Resolve(asset *entity.FileAsset) (string, error) {
	return "/data/" + asset.StoragePath, nil
}

func (s *stubStorage) Exists(asset *entity.FileAsset) bool {
	return s.exists
}

func (s *stubStorage) WritePreview(asset *entity.FileAsset, renderType string, image []byte) (string, error) {
	relPath := asset.OwnerID + "/" + asset.ID + "/" + renderType + ".png"
	s.writtenPreviews[relPath] = image
	return relPath, nil
}

func (s *stubStorage) DeletePreview(relPath string) error {
	s.deletedPreviews = append(s.deletedPreviews, relPath)
	return nil
}

func (s *stubStorage) DeleteAsset(asset *entity.FileAsset) error {
	return nil
}

type stubRenderer struct {
	name  string
	calls int
	image []byte
	err   error
}

func (s *stubRenderer) Render(ctx context.Context, req service.RenderRequest) (*service.RenderResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &service.RenderResult{Image: s.image, Format: "png"}, nil
}

func (s *stubRenderer) Name() string {
	return s.name
}

type stubPublisher struct {
	mu     sync.Mutex
	events []string
}

func (s *stubPublisher) PublishStatus(assetID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, status)
}
