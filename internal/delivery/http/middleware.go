package http

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthUsecase interface {
	// ValidateSession resolves a bearer token to the owning user id.
	ValidateSession(ctx context.Context, token string) (userID uuid.UUID, err error)
}

func AuthMiddleware(authUsecase AuthUsecase) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(401, "Unauthorized")
			}

			token := strings.TrimPrefix(header, "Bearer ")

			userID, err := authUsecase.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return echo.NewHTTPError(401, "Unauthorized")
			}
			if userID == uuid.Nil {
				return echo.NewHTTPError(401, "Unauthorized")
			}

			c.Set("userID", userID)
			return next(c)
		}
	}
}
