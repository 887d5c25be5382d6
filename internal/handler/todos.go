package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/todo-app/internal/database"
	"github.com/iliyamo/todo-app/internal/middleware"
	"github.com/iliyamo/todo-app/internal/model"
	"github.com/iliyamo/todo-app/internal/repository"
)

// TodoHandler serves the caller's own todos. Every query is filtered by the
// caller's user id; another user's todo is indistinguishable from a
// missing one.
type TodoHandler struct {
	Log *logrus.Logger
}

func NewTodoHandler(log *logrus.Logger) *TodoHandler { return &TodoHandler{Log: log} }

type todoReq struct {
	Title       string `json:"title" validate:"required,min=3,max=70"`
	Description string `json:"description" validate:"required,min=3,max=120"`
	Priority    int    `json:"priority" validate:"gt=0,lt=6"`
	Completed   *bool  `json:"completed" validate:"required"`
}

type todoResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Completed   bool   `json:"completed"`
	OwnerID     uint64 `json:"owner_id"`
}

func toTodoResp(t model.Todo) todoResp {
	return todoResp{ID: t.ID, Title: t.Title, Description: t.Description,
		Priority: t.Priority, Completed: t.Completed, OwnerID: t.OwnerID}
}

func toTodoList(items []model.Todo) []todoResp {
	out := make([]todoResp, 0, len(items))
	for _, t := range items {
		out = append(out, toTodoResp(t))
	}
	return out
}

// ReadAll handles GET / and lists the caller's todos.
func (h *TodoHandler) ReadAll(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return notAuthenticated(c)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := repository.NewTodoRepo(database.SessionFrom(c)).ListByOwner(ctx, id.UserID)
	if err != nil {
		return internalError(c, h.Log, "list todos", err)
	}
	return c.JSON(http.StatusOK, toTodoList(items))
}

// ReadOne handles GET /todo/:id.
func (h *TodoHandler) ReadOne(c echo.Context) error {
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

	t, err := repository.NewTodoRepo(database.SessionFrom(c)).GetByIDAndOwner(ctx, todoID, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "ToDo not found")
		}
		return internalError(c, h.Log, "get todo", err)
	}
	return c.JSON(http.StatusOK, toTodoResp(t))
}

// Create handles POST /todo. The owner is always the caller.
func (h *TodoHandler) Create(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return notAuthenticated(c)
	}
	var req todoReq
	if err := bindValid(c, &req); err != nil {
		return unprocessable(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t := model.Todo{Title: req.Title, Description: req.Description, Priority: req.Priority,
		Completed: *req.Completed, OwnerID: id.UserID}
	if err := repository.NewTodoRepo(database.SessionFrom(c)).Create(ctx, &t); err != nil {
		return internalError(c, h.Log, "create todo", err)
	}
	return c.JSON(http.StatusCreated, toTodoResp(t))
}

// Update handles PUT /todo/:id.
func (h *TodoHandler) Update(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return notAuthenticated(c)
	}
	todoID, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "todo_id")
	}
	var req todoReq
	if err := bindValid(c, &req); err != nil {
		return unprocessable(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	t := model.Todo{ID: todoID, Title: req.Title, Description: req.Description, Priority: req.Priority,
		Completed: *req.Completed, OwnerID: id.UserID}
	if err := repository.NewTodoRepo(database.SessionFrom(c)).UpdateByIDAndOwner(ctx, t); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "ToDo not found")
		}
		return internalError(c, h.Log, "update todo", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Delete handles DELETE /todo/:id.
func (h *TodoHandler) Delete(c echo.Context) error {
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

	if err := repository.NewTodoRepo(database.SessionFrom(c)).DeleteByIDAndOwner(ctx, todoID, id.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "ToDo not found")
		}
		return internalError(c, h.Log, "delete todo", err)
	}
	return c.NoContent(http.StatusNoContent)
}
