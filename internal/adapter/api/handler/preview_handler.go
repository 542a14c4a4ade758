package handler

import (
	"github.com/labstack/echo/v4"

	"printlab/internal/domain/entity"
	"printlab/internal/usecase"
	"printlab/pkg/errors"
	"printlab/pkg/response"
)

type PreviewHandler struct {
	previewUseCase *usecase.PreviewUseCase
}

func NewPreviewHandler(previewUseCase *usecase.PreviewUseCase) *PreviewHandler {
	return &PreviewHandler{
		previewUseCase: previewUseCase,
	}
}

type GeneratePreviewRequest struct {
	Type string `json:"type" validate:"required,oneof=2d wireframe 3d"`
}

func (h *PreviewHandler) Generate(c echo.Context) error {
	var req GeneratePreviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	preview, err := h.previewUseCase.GeneratePreview(c.Request().Context(), c.Param("id"), req.Type)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, preview)
}

func (h *PreviewHandler) ListByAsset(c echo.Context) error {
	previews, err := h.previewUseCase.ListByAsset(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, previews)
}

func (h *PreviewHandler) Delete(c echo.Context) error {
	if err := h.previewUseCase.DeletePreview(c.Request().Context(), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{"status": "deleted"})
}

type SweepRequest struct {
	Status string   `json:"status"`
	Types  []string `json:"types"`
}

// Sweep generates the missing previews for every asset in a status.
func (h *PreviewHandler) Sweep(c echo.Context) error {
	var req SweepRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	if req.Status == "" {
		req.Status = entity.StatusProcessed
	}
	if len(req.Types) == 0 {
		req.Types = []string{entity.RenderType2D, entity.RenderTypeWireframe, entity.RenderType3D}
	}

	summary, err := h.previewUseCase.GenerateMissing(c.Request().Context(), req.Status, req.Types)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, summary)
}
