package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 固定窓のレート制限。infra/ratelimitのRedis実装を注入する
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// IP+ルート単位で制限する。Redis障害時は通す
func RateLimit(l Limiter, log *zap.Logger) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if l == nil {
				return next(c)
			}

			key := c.RealIP() + ":" + c.Path()
			ok, err := l.Allow(c.Request().Context(), key)
			if err != nil {
				log.Error("rate limit check failed", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if !ok {
				log.Warn("rate limit exceeded", zap.String("key", key))
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}
			return next(c)
		}
	}
}
