package middleware // middleware provides shared request processing for handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole returns a middleware that admits only identities whose role
// is in roles. It must run after JWTAuth. Rejections use 401 with the same
// body as a missing token, matching the public API of the service.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := GetIdentity(c)
			if !ok || !allowed[id.Role] {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": detailNotAuthenticated})
			}
			return next(c)
		}
	}
}
