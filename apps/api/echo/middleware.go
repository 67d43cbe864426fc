package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/aslbekqoziboyev/lc-backend/core/user"
)

// adminMiddleware only lets SUPER_ADMIN callers through.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// bootstrapOrJWT lets the very first registration through unauthenticated:
// as long as no user exists, POST /users is open so the owner account can be
// created. Every later call goes through the JWT middleware.
func bootstrapOrJWT(svc *user.Service, jwt echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		protected := jwt(next)
		return func(ctx echo.Context) error {
			users, err := svc.QueryAll(ctx.Request().Context())
			if err != nil {
				return errors.Wrap(err, "querying users")
			}
			if len(users) == 0 {
				return next(ctx)
			}
			return protected(ctx)
		}
	}
}
