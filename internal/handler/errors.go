package handler

import (
	"net/http"
	"strconv"

	"sportsbooking/internal/middleware"
	"sportsbooking/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		if werr := c.JSON(he.Status, ErrorResponse{Error: he.Message}); werr != nil {
			return werr
		}
		if he.Status >= http.StatusInternalServerError {
			// 応答は書き済み。原因はアクセスログに残すため返す
			return err
		}
		return nil
	}

	//500
	if werr := c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"}); werr != nil {
		return werr
	}
	return err
}

// 保護ルートに共通で掛けるミドルウェア
type Guards struct {
	Auth      []echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

func (g Guards) rateLimited() []echo.MiddlewareFunc {
	if g.RateLimit == nil {
		return nil
	}
	return []echo.MiddlewareFunc{g.RateLimit}
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	return middleware.UserIDFrom(c)
}

// パスパラメータを正の整数として読む
func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// c.Bind + c.Validate。失敗時は400を書いてfalse
func bindAndValidate(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
	return true, nil
}

func queryInt(c echo.Context, name string, def int) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func queryInt64Ptr(c echo.Context, name string) (*int64, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, false
	}
	return &n, true
}
