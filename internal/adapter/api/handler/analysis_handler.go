package handler

import (
	"github.com/labstack/echo/v4"

	"printlab/internal/usecase"
	"printlab/pkg/logger"
	"printlab/pkg/response"
)

type AnalysisHandler struct {
	analysisUseCase *usecase.AnalysisUseCase
}

func NewAnalysisHandler(analysisUseCase *usecase.AnalysisUseCase) *AnalysisHandler {
	return &AnalysisHandler{
		analysisUseCase: analysisUseCase,
	}
}

func (h *AnalysisHandler) Analyze(c echo.Context) error {
	assetID := c.Param("id")

	result, err := h.analysisUseCase.Analyze(c.Request().Context(), assetID)
	if err != nil {
		logger.Error("Analysis of asset %s failed: %v", assetID, err)
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *AnalysisHandler) Reanalyze(c echo.Context) error {
	assetID := c.Param("id")

	result, err := h.analysisUseCase.Reanalyze(c.Request().Context(), assetID)
	if err != nil {
		logger.Error("Reanalysis of asset %s failed: %v", assetID, err)
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
