package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/repository"
	"printlab/pkg/errors"
	"printlab/pkg/logger"
)

type firestoreFileAssetRepository struct {
	client *firestore.Client
}

func NewFirestoreFileAssetRepository(client *firestore.Client) repository.FileAssetRepository {
	return &firestoreFileAssetRepository{
		client: client,
	}
}

func (r *firestoreFileAssetRepository) Create(ctx context.Context, asset *entity.FileAsset) error {
	_, err := r.client.Collection("file_assets").Doc(asset.ID).Set(ctx, asset)
	if err != nil {
		return errors.Internal("Failed to create file asset", err)
	}
	return nil
}

func (r *firestoreFileAssetRepository) GetByID(ctx context.Context, id string) (*entity.FileAsset, error) {
	doc, err := r.client.Collection("file_assets").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("File asset", err)
		}
		return nil, errors.Internal("Failed to get file asset", err)
	}

	var asset entity.FileAsset
	if err := doc.DataTo(&asset); err != nil {
		return nil, errors.Internal("Failed to parse file asset", err)
	}

	return &asset, nil
}

func (r *firestoreFileAssetRepository) List(ctx context.Context, limit, offset int) ([]*entity.FileAsset, int64, error) {
	countDocs, err := r.client.Collection("file_assets").Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count file assets", err)
	}
	total := int64(len(countDocs))

	query := r.client.Collection("file_assets").OrderBy("uploadedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var assets []*entity.FileAsset
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to iterate file assets", err)
		}

		var asset entity.FileAsset
		if err := doc.DataTo(&asset); err != nil {
			logger.Error("Failed to parse file asset: %v", err)
			continue
		}
		assets = append(assets, &asset)
	}

	return assets, total, nil
}

func (r *firestoreFileAssetRepository) ListByStatus(ctx context.Context, assetStatus string) ([]*entity.FileAsset, error) {
	iter := r.client.Collection("file_assets").
		Where("status", "==", assetStatus).
		Documents(ctx)
	defer iter.Stop()

	var assets []*entity.FileAsset
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate file assets", err)
		}

		var asset entity.FileAsset
		if err := doc.DataTo(&asset); err != nil {
			logger.Error("Failed to parse file asset: %v", err)
			continue
		}
		assets = append(assets, &asset)
	}

	return assets, nil
}

func (r *firestoreFileAssetRepository) UpdateStatus(ctx context.Context, id, assetStatus string, processedAt *time.Time) error {
	updates := []firestore.Update{
		{Path: "status", Value: assetStatus},
	}
	if processedAt != nil {
		updates = append(updates, firestore.Update{Path: "processedAt", Value: *processedAt})
	}

	_, err := r.client.Collection("file_assets").Doc(id).Update(ctx, updates)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("File asset", err)
		}
		return errors.Internal("Failed to update file asset status", err)
	}
	return nil
}

// ClaimForProcessing runs the status check and write inside a transaction so
// two concurrent analyze calls cannot both pass the check.
func (r *firestoreFileAssetRepository) ClaimForProcessing(ctx context.Context, id, expected, next string) error {
	ref := r.client.Collection("file_assets").Doc(id)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("File asset", err)
			}
			return errors.Internal("Failed to get file asset", err)
		}

		current, err := doc.DataAt("status")
		if err != nil {
			return errors.Internal("Failed to read file asset status", err)
		}
		if current != expected {
			return errors.InvalidState("asset is not in state " + expected)
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: next},
		})
	})
	if err != nil {
		if errors.Is(err, "INVALID_STATE") || errors.Is(err, "NOT_FOUND") {
			return err
		}
		return errors.Internal("Failed to claim file asset", err)
	}
	return nil
}

func (r *firestoreFileAssetRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("file_assets").Doc(id).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("File asset", err)
		}
		return errors.Internal("Failed to delete file asset", err)
	}
	return nil
}
