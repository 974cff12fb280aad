package middleware

import (
	"net/http"

	"sportsbooking/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているroleが許可リストに含まれるか確認します。
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
		}
	}
}

// ロール→権限表で判定。権限不足はUnauthorized扱い（未知のロールも同じ）
func RequirePermission(p model.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := RoleFrom(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if !model.HasPermission(role, p) {
				return c.JSON(http.StatusUnauthorized, errorJSON("missing permission: "+p.String()))
			}
			return next(c)
		}
	}
}
