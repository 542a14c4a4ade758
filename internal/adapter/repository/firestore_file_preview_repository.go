package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/repository"
	"printlab/pkg/errors"
	"printlab/pkg/logger"
)

type firestoreFilePreviewRepository struct {
	client *firestore.Client
}

func NewFirestoreFilePreviewRepository(client *firestore.Client) repository.FilePreviewRepository {
	return &firestoreFilePreviewRepository{
		client: client,
	}
}

func (r *firestoreFilePreviewRepository) Create(ctx context.Context, preview *entity.FilePreview) error {
	_, err := r.client.Collection("file_previews").Doc(preview.ID).Set(ctx, preview)
	if err != nil {
		return errors.Internal("Failed to create file preview", err)
	}
	return nil
}

func (r *firestoreFilePreviewRepository) GetByID(ctx context.Context, id string) (*entity.FilePreview, error) {
	doc, err := r.client.Collection("file_previews").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("File preview", err)
		}
		return nil, errors.Internal("Failed to get file preview", err)
	}

	var preview entity.FilePreview
	if err := doc.DataTo(&preview); err != nil {
		return nil, errors.Internal("Failed to parse file preview", err)
	}

	return &preview, nil
}

func (r *firestoreFilePreviewRepository) GetByAssetAndType(ctx context.Context, assetID, renderType string) (*entity.FilePreview, error) {
	iter := r.client.Collection("file_previews").
		Where("assetId", "==", assetID).
		Where("renderType", "==", renderType).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("File preview", nil)
		}
		return nil, errors.Internal("Failed to query file previews", err)
	}

	var preview entity.FilePreview
	if err := doc.DataTo(&preview); err != nil {
		return nil, errors.Internal("Failed to parse file preview", err)
	}

	return &preview, nil
}

func (r *firestoreFilePreviewRepository) ListByAssetID(ctx context.Context, assetID string) ([]*entity.FilePreview, error) {
	iter := r.client.Collection("file_previews").
		Where("assetId", "==", assetID).
		Documents(ctx)
	defer iter.Stop()

	var previews []*entity.FilePreview
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate file previews", err)
		}

		var preview entity.FilePreview
		if err := doc.DataTo(&preview); err != nil {
			logger.Error("Failed to parse file preview: %v", err)
			continue
		}
		previews = append(previews, &preview)
	}

	return previews, nil
}

func (r *firestoreFilePreviewRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("file_previews").Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("File preview", err)
		}
		return errors.Internal("Failed to delete file preview", err)
	}
	return nil
}

func (r *firestoreFilePreviewRepository) DeleteByAssetID(ctx context.Context, assetID string) error {
	iter := r.client.Collection("file_previews").
		Where("assetId", "==", assetID).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate file previews", err)
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Internal("Failed to delete file preview", err)
		}
	}

	return nil
}
