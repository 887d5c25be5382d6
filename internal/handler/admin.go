package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/todo-app/internal/database"
	"github.com/iliyamo/todo-app/internal/middleware"
	"github.com/iliyamo/todo-app/internal/queue"
	"github.com/iliyamo/todo-app/internal/repository"
)

// AdminHandler serves unscoped todo access. Routes are registered behind
// RequireRole("admin").
type AdminHandler struct {
	Audit AuditPublisher
	Log   *logrus.Logger
}

func NewAdminHandler(audit AuditPublisher, log *logrus.Logger) *AdminHandler {
	return &AdminHandler{Audit: audit, Log: log}
}

// ReadAllTodos handles GET /admin/todo.
func (h *AdminHandler) ReadAllTodos(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := repository.NewTodoRepo(database.SessionFrom(c)).ListAll(ctx)
	if err != nil {
		return internalError(c, h.Log, "list all todos", err)
	}
	return c.JSON(http.StatusOK, toTodoList(items))
}

// DeleteTodo handles DELETE /admin/todo/:id regardless of owner.
func (h *AdminHandler) DeleteTodo(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return notAuthenticated(c)
	}
	todoID, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "todo_id")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := repository.NewTodoRepo(database.SessionFrom(c)).DeleteByID(ctx, todoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "ToDo not found")
		}
		return internalError(c, h.Log, "admin delete todo", err)
	}

	publishAudit(ctx, h.Audit, h.Log, queue.AuditEvent{
		Type: queue.EventAdminTodoDeleted, ActorID: id.UserID, ActorUsername: id.Username, TodoID: todoID,
	})
	return c.NoContent(http.StatusNoContent)
}
