package entity

import (
	"time"
)

const (
	RenderType2D        = "2d"
	RenderTypeWireframe = "wireframe"
	RenderType3D        = "3d"
)

func IsValidRenderType(renderType string) bool {
	switch renderType {
	case RenderType2D, RenderTypeWireframe, RenderType3D:
		return true
	}
	return false
}

type FilePreview struct {
	ID         string    `json:"id" firestore:"id"`
	AssetID    string    `json:"asset_id" firestore:"assetId"`
	RenderType string    `json:"render_type" firestore:"renderType"`
	ImagePath  string    `json:"image_path" firestore:"imagePath"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
