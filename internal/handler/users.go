package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/todo-app/internal/database"
	"github.com/iliyamo/todo-app/internal/middleware"
	"github.com/iliyamo/todo-app/internal/model"
	"github.com/iliyamo/todo-app/internal/queue"
	"github.com/iliyamo/todo-app/internal/repository"
	"github.com/iliyamo/todo-app/internal/security"
)

// UserHandler serves the caller's own account.
type UserHandler struct {
	Hasher *security.Hasher
	Audit  AuditPublisher
	Log    *logrus.Logger
}

func NewUserHandler(h *security.Hasher, audit AuditPublisher, log *logrus.Logger) *UserHandler {
	return &UserHandler{Hasher: h, Audit: audit, Log: log}
}

type userResp struct {
	ID          uint64  `json:"id"`
	Email       string  `json:"email"`
	Username    string  `json:"username"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	IsActive    bool    `json:"is_active"`
	Role        string  `json:"role"`
	PhoneNumber *string `json:"phone_number"`
}

func toUserResp(u model.User) userResp {
	r := userResp{ID: u.ID, Email: u.Email, Username: u.Username, FirstName: u.FirstName,
		LastName: u.LastName, IsActive: u.IsActive, Role: u.Role}
	if u.PhoneNumber.Valid {
		p := u.PhoneNumber.String
		r.PhoneNumber = &p
	}
	return r
}

type changePasswordReq struct {
	Password    string `json:"password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,pwbytes"`
}

// Me handles GET /users/me. The stored hash never leaves the server.
func (h *UserHandler) Me(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return notAuthenticated(c)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := repository.NewUserRepo(database.SessionFrom(c)).GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, h.Log, "get user", err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// UpdatePassword handles PUT /users/me/password. The current password must
// verify before the new hash is written.
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return notAuthenticated(c)
	}
	var req changePasswordReq
	if err := bindValid(c, &req); err != nil {
		return unprocessable(c, err)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users := repository.NewUserRepo(database.SessionFrom(c))
	u, err := users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, h.Log, "get user", err)
	}

	match, err := h.Hasher.Verify(req.Password, u.HashedPassword)
	if err != nil {
		return internalError(c, h.Log, "verify password", err)
	}
	if !match {
		return detail(c, http.StatusUnauthorized, "Incorrect password")
	}

	hash, err := h.Hasher.Hash(req.NewPassword)
	if err != nil {
		return internalError(c, h.Log, "hash password", err)
	}
	if err := users.UpdatePassword(ctx, u.ID, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, h.Log, "update password", err)
	}

	publishAudit(ctx, h.Audit, h.Log, queue.AuditEvent{
		Type: queue.EventPasswordChanged, ActorID: id.UserID, ActorUsername: id.Username, UserID: u.ID,
	})
	return c.NoContent(http.StatusNoContent)
}

// UpdatePhoneNumber handles PUT /users/me/phone_number/:phone.
func (h *UserHandler) UpdatePhoneNumber(c echo.Context) error {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		return notAuthenticated(c)
	}
	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" || len(phone) > 32 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"detail": []fieldError{{Field: "phone_number", Msg: "must be 1 to 32 characters"}},
		})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := repository.NewUserRepo(database.SessionFrom(c)).UpdatePhoneNumber(ctx, id.UserID, phone); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return detail(c, http.StatusNotFound, "User not found")
		}
		return internalError(c, h.Log, "update phone number", err)
	}
	return c.NoContent(http.StatusNoContent)
}
