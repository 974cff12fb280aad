package middleware

import (
	"net/http"
	"strings"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/metrics"
	"sportsbooking/internal/token"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	CtxUserIDKey    = "user_id"    // int64
	CtxUserRoleKey  = "user_role"  // model.Role
	CtxUserEmailKey = "user_email" // string
)

// bearerAuth用のJWT検証ミドルウェア。access用のSignerを渡す
func AuthJWT(signer *token.Signer, log *zap.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//Bearer形式か確認してtokenを抜く
			authz := c.Request().Header.Get(echo.HeaderAuthorization)
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			rawToken := strings.TrimSpace(parts[1])
			if rawToken == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			payload, err := signer.Verify(rawToken)
			if err != nil {
				kind := token.FailureKind(err)
				log.Warn("access token rejected",
					zap.String("kind", kind),
					zap.String("path", c.Path()),
					zap.Error(err),
				)
				m.TokenFailure("access", kind)
				if kind == "expired" {
					return c.JSON(http.StatusUnauthorized, errorJSON("token expired"))
				}
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//contextへ保存
			c.Set(CtxUserIDKey, payload.UserID)
			c.Set(CtxUserRoleKey, payload.RoleID)
			c.Set(CtxUserEmailKey, payload.Email)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// AuthJWTが入れた値を読む
func UserIDFrom(c echo.Context) (int64, bool) {
	id, ok := c.Get(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func RoleFrom(c echo.Context) (model.Role, bool) {
	r, ok := c.Get(CtxUserRoleKey).(model.Role)
	return r, ok
}
