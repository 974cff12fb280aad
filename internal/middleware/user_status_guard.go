package middleware

import (
	"errors"
	"net/http"

	"sportsbooking/internal/domain/model"
	"sportsbooking/internal/repository"

	"github.com/labstack/echo/v4"
)

// アクセストークンが有効な間に停止/承認待ちになったユーザーを止める。
// AuthJWTの後ろで使う
func ActiveUserGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := UserIDFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			switch user.Status {
			case model.UserStatusBanned:
				return c.JSON(http.StatusForbidden, errorJSON("account is banned"))
			case model.UserStatusPendingApprove:
				return c.JSON(http.StatusForbidden, errorJSON("account is pending approval"))
			}

			// ロール変更はDBの値を正とする
			c.Set(CtxUserRoleKey, user.RoleID)
			return next(c)
		}
	}
}
