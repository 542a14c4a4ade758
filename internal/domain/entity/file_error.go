package entity

import (
	"time"
)

// FileError is one entry in an asset's append-only failure log. Entries are
// never mutated; reanalysis clears the log before a new attempt starts.
type FileError struct {
	ID        string    `json:"id" firestore:"id"`
	AssetID   string    `json:"asset_id" firestore:"assetId"`
	Message   string    `json:"message" firestore:"message"`
	Trace     string    `json:"trace,omitempty" firestore:"trace"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}
