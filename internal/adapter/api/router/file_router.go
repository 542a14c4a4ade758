package router

import (
	"printlab/internal/adapter/api/handler"
	"printlab/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	fileHandler := handler.GetFileHandler()
	analysisHandler := handler.GetAnalysisHandler()
	previewHandler := handler.GetPreviewHandler()

	files := e.Group("/v1/files", authMiddleware.Authenticate)

	files.POST("", fileHandler.Upload, rateLimitMiddleware.Limit("upload"))
	files.GET("", fileHandler.List)
	files.GET("/:id", fileHandler.Get)
	files.DELETE("/:id", fileHandler.Delete)

	files.POST("/:id/analyze", analysisHandler.Analyze, rateLimitMiddleware.Limit("analyze"))
	files.POST("/:id/reanalyze", analysisHandler.Reanalyze, rateLimitMiddleware.Limit("analyze"))

	files.POST("/:id/previews", previewHandler.Generate, rateLimitMiddleware.Limit("preview"))
	files.GET("/:id/previews", previewHandler.ListByAsset)

	previews := e.Group("/v1/previews", authMiddleware.Authenticate)
	previews.DELETE("/:id", previewHandler.Delete)
	previews.POST("/sweep", previewHandler.Sweep)
}
