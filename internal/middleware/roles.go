package middleware

import (
	"net/http"

	"freshtrack/internal/common"
	"freshtrack/internal/models"

	"github.com/labstack/echo/v4"
)

// RequireRole restricts a route to the listed roles. It must run after
// JWTMiddleware, which places the role in the request context.
func RequireRole(roles ...models.UserRole) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.RoleFromContext(c.Request().Context())
			if !ok {
				return common.RespondError(c, http.StatusUnauthorized, "Unauthorized access")
			}
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}
			return common.RespondError(c, http.StatusForbidden, "Insufficient permissions")
		}
	}
}
