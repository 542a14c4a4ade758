package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"printlab/internal/infrastructure/ratelimit"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// Limit returns a middleware that charges one token of the given action per
// request. The caller identity comes from the authenticated uid, falling back
// to the client IP for unauthenticated routes.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			callerID := c.RealIP()
			if uid, ok := c.Get("uid").(string); ok && uid != "" {
				callerID = uid
			}

			allowed, wait := m.limiter.Allow(callerID, action)
			if !allowed {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%.0f", wait.Seconds()))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Rate limit exceeded")
			}

			return next(c)
		}
	}
}
