package router

import (
	"printlab/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimitMiddleware *middleware.RateLimitMiddleware) {
	SetupFileRouter(e, authMiddleware, rateLimitMiddleware)
	SetupHealthRouter(e)
}
