package middleware

// identity.go holds the context accessors shared by the auth middleware,
// the rate limiter and the handlers.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-app/internal/auth"
)

// SetIdentity stores id as the request's caller.
func SetIdentity(c echo.Context, id auth.Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the identity resolved by JWTAuth.
func GetIdentity(c echo.Context) (auth.Identity, bool) {
	id, ok := c.Get(identityKey).(auth.Identity)
	return id, ok
}

// currentUserID returns the caller's id as a string, or "anon".
func currentUserID(c echo.Context) string {
	if id, ok := GetIdentity(c); ok {
		return strconv.FormatUint(id.UserID, 10)
	}
	return "anon"
}
