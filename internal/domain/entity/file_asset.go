package entity

import (
	"time"
)

const (
	StatusUploaded   = "uploaded"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusAnalyzed   = "analyzed"
	StatusError      = "error"
	StatusFailed     = "failed"
)

type FileAsset struct {
	ID              string     `json:"id" firestore:"id"`
	OwnerID         string     `json:"owner_id" firestore:"ownerId"`
	OriginalName    string     `json:"original_name" firestore:"originalName"`
	StoredName      string     `json:"stored_name" firestore:"storedName"`
	Extension       string     `json:"extension" firestore:"extension"`
	MimeType        string     `json:"mime_type" firestore:"mimeType"`
	Size            int64      `json:"size" firestore:"size"`
	StoragePath     string     `json:"storage_path" firestore:"storagePath"`
	StorageLocation string     `json:"storage_location" firestore:"storageLocation"`
	Status          string     `json:"status" firestore:"status"`
	UploadedAt      time.Time  `json:"uploaded_at" firestore:"uploadedAt"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty" firestore:"processedAt"`
}

// CanReanalyze reports whether the asset has a completed or failed run behind
// it. Assets stuck in processing (e.g. after a crash mid-analysis) are not
// included; they require the operator to reset them explicitly.
func (a *FileAsset) CanReanalyze() bool {
	switch a.Status {
	case StatusProcessed, StatusAnalyzed, StatusFailed, StatusError:
		return true
	}
	return false
}
