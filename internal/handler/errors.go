package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/todo-app/internal/queue"
)

// dbTimeout bounds every repository call made by a handler.
const dbTimeout = 5 * time.Second

// AuditPublisher delivers audit events. Delivery is best effort.
type AuditPublisher interface {
	Publish(ctx context.Context, ev queue.AuditEvent) error
}

func detail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"detail": msg})
}

// internalError logs err and answers 500 without exposing it.
func internalError(c echo.Context, log *logrus.Logger, msg string, err error) error {
	log.WithError(err).WithFields(logrus.Fields{
		"route":  c.Path(),
		"method": c.Request().Method,
	}).Error(msg)
	return detail(c, http.StatusInternalServerError, "Internal server error")
}

func notAuthenticated(c echo.Context) error {
	return detail(c, http.StatusUnauthorized, "Not authenticated")
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c echo.Context, name string) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{
		"detail": []fieldError{{Field: name, Msg: "must be greater than 0"}},
	})
}

func publishAudit(ctx context.Context, pub AuditPublisher, log *logrus.Logger, ev queue.AuditEvent) {
	if pub == nil {
		return
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := pub.Publish(ctx, ev); err != nil {
		log.WithError(err).WithField("event", ev.Type).Warn("audit publish failed")
	}
}
