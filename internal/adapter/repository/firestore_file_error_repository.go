package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/repository"
	"printlab/pkg/errors"
	"printlab/pkg/logger"
)

type firestoreFileErrorRepository struct {
	client *firestore.Client
}

func NewFirestoreFileErrorRepository(client *firestore.Client) repository.FileErrorRepository {
	return &firestoreFileErrorRepository{
		client: client,
	}
}

func (r *firestoreFileErrorRepository) Append(ctx context.Context, fileError *entity.FileError) error {
	_, err := r.client.Collection("file_errors").Doc(fileError.ID).Set(ctx, fileError)
	if err != nil {
		return errors.Internal("Failed to record file error", err)
	}
	return nil
}

func (r *firestoreFileErrorRepository) ListByAssetID(ctx context.Context, assetID string) ([]*entity.FileError, error) {
	query := r.client.Collection("file_errors").
		Where("assetId", "==", assetID).
		OrderBy("createdAt", firestore.Desc)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var fileErrors []*entity.FileError
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate file errors", err)
		}

		var fileError entity.FileError
		if err := doc.DataTo(&fileError); err != nil {
			logger.Error("Failed to parse file error: %v", err)
			continue
		}
		fileErrors = append(fileErrors, &fileError)
	}

	return fileErrors, nil
}

func (r *firestoreFileErrorRepository) DeleteByAssetID(ctx context.Context, assetID string) error {
	iter := r.client.Collection("file_errors").
		Where("assetId", "==", assetID).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Internal("Failed to iterate file errors", err)
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return errors.Internal("Failed to delete file error", err)
		}
	}

	return nil
}
