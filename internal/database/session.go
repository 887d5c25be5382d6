package database

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const sessionKey = "db_session"

// Session returns a middleware that checks out one connection from the pool
// for the lifetime of the request and releases it on every exit path,
// including handler errors and panics unwinding through the chain.
func Session(db *sql.DB, log *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			conn, err := db.Conn(c.Request().Context())
			if err != nil {
				log.WithError(err).Error("acquire db session")
				return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "database unavailable"})
			}
			defer func() { _ = conn.Close() }()

			SetSession(c, conn)
			return next(c)
		}
	}
}

// SetSession binds s as the request's database handle.
func SetSession(c echo.Context, s DBTX) {
	c.Set(sessionKey, s)
}

// SessionFrom returns the handle bound by Session. It is nil when the
// route was registered without the middleware.
func SessionFrom(c echo.Context) DBTX {
	s, _ := c.Get(sessionKey).(DBTX)
	return s
}
