package server

import (
	"context"
	"net/http"
	"time"

	"sportsbooking/internal/handler"
	"sportsbooking/internal/metrics"
	"sportsbooking/internal/middleware"
	"sportsbooking/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ルーティングに必要な部品
type Deps struct {
	Log      *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	// DB疎通確認。nilならhealthzは常にok
	Health func(ctx context.Context) error

	Guards     handler.Guards
	Auth       *handler.AuthHandler
	Facilities *handler.FacilityHandler
	Owner      *handler.OwnerHandler
}

type healthResponse struct {
	Status string `json:"status"`
}

// echoを組み立ててルートを登録する
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.HTTPErrorHandler = errorHandler(d.Log)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log, d.Metrics))

	RegisterRoutes(e, d)
	return e
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", healthz(d.Health))
	if d.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group("/api")
	d.Auth.RegisterRoutes(api, d.Guards)
	d.Facilities.RegisterRoutes(api)
	d.Owner.RegisterRoutes(api, d.Guards)
}

func healthz(check func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				return c.JSON(http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, healthResponse{Status: "ok"})
	}
}

// echo由来のエラー（404/405/bind等）もErrorResponse形式で返す
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "internal error"
		if he, ok := err.(*echo.HTTPError); ok {
			status = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(status)
			}
		} else {
			log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, handler.ErrorResponse{Error: msg})
	}
}
