package service

import (
	"context"
)

type RenderRequest struct {
	FilePath    string `json:"file_path"`
	PreviewType string `json:"preview_type"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
}

type RenderResult struct {
	Image  []byte
	Format string
}

// PreviewRenderer is the boundary to a remote preview-rendering backend.
// Implementations must bound the call with a timeout; rendering can be slow
// but must never block indefinitely.
type PreviewRenderer interface {
	Render(ctx context.Context, req RenderRequest) (*RenderResult, error)
	Name() string
}
