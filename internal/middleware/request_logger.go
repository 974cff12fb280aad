package middleware

import (
	"strconv"
	"time"

	"sportsbooking/internal/metrics"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// 1リクエスト1行のアクセスログとHTTPメトリクス
func RequestLogger(log *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// echoのエラーハンドラに書かせてからステータスを読む
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			elapsed := time.Since(start)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.HTTPRequest(req.Method, route, strconv.Itoa(res.Status), elapsed.Seconds())

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("route", route),
				zap.String("uri", req.RequestURI),
				zap.Int("status", res.Status),
				zap.Duration("latency", elapsed),
				zap.String("ip", c.RealIP()),
			}
			if id, ok := UserIDFrom(c); ok {
				fields = append(fields, zap.Int64("user_id", id))
			}

			switch {
			case res.Status >= 500:
				log.Error("request", append(fields, zap.Error(err))...)
			case res.Status >= 400:
				log.Warn("request", fields...)
			default:
				log.Info("request", fields...)
			}
			return nil
		}
	}
}
