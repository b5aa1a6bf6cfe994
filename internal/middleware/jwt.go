package middleware

import (
	"context"
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/services"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// NewJWTConfig builds the echo-jwt configuration for protected routes.
// Tokens are parsed and revocation-checked by the auth service, so a
// logged-out caller is rejected even while the token is still unexpired.
// Valid claims are copied into the request context for the handlers.
func NewJWTConfig(authSvc services.AuthService) echojwt.Config {
	return echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := authSvc.ValidateToken(c.Request().Context(), auth)
			if err != nil {
				return nil, err
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return nil, err
			}
			role, err := models.ParseRole(claims.Role)
			if err != nil {
				return nil, err
			}

			ctx := context.WithValue(c.Request().Context(), common.UserIDKey, userID)
			ctx = context.WithValue(ctx, common.RoleKey, role)
			c.SetRequest(c.Request().WithContext(ctx))

			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
		},
	}
}
