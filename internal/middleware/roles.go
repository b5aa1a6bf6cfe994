package middleware

import (
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole restricts a route group to callers holding one of the given
// roles. The JWT middleware must run first to populate the context.
func RequireRole(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
			}

			for _, want := range allowed {
				if role == want {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}
