package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"printlab/internal/domain/entity"
	"printlab/internal/domain/repository"
	"printlab/pkg/errors"
)

// Results are keyed by asset ID, which gives the one-result-per-asset
// invariant and replace semantics for free.
type firestoreAnalysisResultRepository struct {
	client *firestore.Client
}

func NewFirestoreAnalysisResultRepository(client *firestore.Client) repository.AnalysisResultRepository {
	return &firestoreAnalysisResultRepository{
		client: client,
	}
}

func (r *firestoreAnalysisResultRepository) GetByAssetID(ctx context.Context, assetID string) (*entity.AnalysisResult, error) {
	doc, err := r.client.Collection("analysis_results").Doc(assetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Analysis result", err)
		}
		return nil, errors.Internal("Failed to get analysis result", err)
	}

	var result entity.AnalysisResult
	if err := doc.DataTo(&result); err != nil {
		return nil, errors.Internal("Failed to parse analysis result", err)
	}

	return &result, nil
}

func (r *firestoreAnalysisResultRepository) Replace(ctx context.Context, result *entity.AnalysisResult) error {
	_, err := r.client.Collection("analysis_results").Doc(result.AssetID).Set(ctx, result)
	if err != nil {
		return errors.Internal("Failed to save analysis result", err)
	}
	return nil
}

func (r *firestoreAnalysisResultRepository) Delete(ctx context.Context, assetID string) error {
	_, err := r.client.Collection("analysis_results").Doc(assetID).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to delete analysis result", err)
	}
	return nil
}
