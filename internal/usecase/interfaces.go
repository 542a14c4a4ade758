package usecase

import (
	"context"
	"io"

	"printlab/internal/domain/entity"
	"printlab/internal/infrastructure/analyzer"
	"printlab/internal/infrastructure/storage"
)

type AnalyzerResolver interface {
	Resolve(extension string) (*analyzer.Analyzer, error)
}

type ProcessRunner interface {
	Run(ctx context.Context, spec analyzer.RunSpec) (*analyzer.RunResult, error)
}

type FileStorage interface {
	SaveUpload(ownerID, assetID, filename string, src io.Reader) (*storage.SaveResult, error)
	Resolve(asset *entity.FileAsset) (string, error)
	Exists(asset *entity.FileAsset) bool
	WritePreview(asset *entity.FileAsset, renderType string, image []byte) (string, error)
	DeletePreview(relPath string) error
	DeleteAsset(asset *entity.FileAsset) error
}

// StatusPublisher pushes asset lifecycle transitions to subscribed clients.
type StatusPublisher interface {
	PublishStatus(assetID, status string)
}
