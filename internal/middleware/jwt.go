package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-app/internal/auth"
	"github.com/iliyamo/todo-app/internal/security"
)

const (
	identityKey = "identity"

	detailNotAuthenticated = "Not authenticated"
	detailBadToken         = "Username or ID not found"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// and stores the resulting auth.Identity in the context. Requests without a
// usable token never reach the handler.
func JWTAuth(codec *security.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": detailNotAuthenticated})
			}

			claims, err := codec.Decode(strings.TrimSpace(raw))
			if err != nil || claims.Subject == "" || claims.UserID == 0 {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": detailBadToken})
			}

			SetIdentity(c, auth.Identity{Username: claims.Subject, UserID: claims.UserID, Role: claims.Role})
			return next(c)
		}
	}
}
