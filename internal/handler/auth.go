package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/todo-app/internal/auth"
	"github.com/iliyamo/todo-app/internal/database"
	"github.com/iliyamo/todo-app/internal/model"
	"github.com/iliyamo/todo-app/internal/queue"
	"github.com/iliyamo/todo-app/internal/repository"
	"github.com/iliyamo/todo-app/internal/security"
)

// AuthHandler bundles dependencies for registration and login.
type AuthHandler struct {
	Auth   *auth.Authenticator
	Hasher *security.Hasher
	Audit  AuditPublisher
	Log    *logrus.Logger
}

func NewAuthHandler(a *auth.Authenticator, h *security.Hasher, audit AuditPublisher, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: a, Hasher: h, Audit: audit, Log: log}
}

// ----- DTOs -----

type createUserReq struct {
	Username    string `json:"username" validate:"required,max=64"`
	Email       string `json:"email" validate:"required,email,max=255"`
	FirstName   string `json:"first_name" validate:"max=64"`
	LastName    string `json:"last_name" validate:"max=64"`
	Password    string `json:"password" validate:"required,pwbytes"`
	Role        string `json:"role" validate:"omitempty,max=32"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,max=32"`
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register handles POST /auth/. Only the bcrypt hash is stored.
func (h *AuthHandler) Register(c echo.Context) error {
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return unprocessable(c, err)
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := c.Validate(&req); err != nil {
		return unprocessable(c, err)
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleUser
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		return internalError(c, h.Log, "hash password", err)
	}
	u := &model.User{
		Email:          req.Email,
		Username:       req.Username,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hash,
		IsActive:       true,
		Role:           role,
		PhoneNumber:    sql.NullString{String: req.PhoneNumber, Valid: req.PhoneNumber != ""},
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if _, err := repository.NewUserRepo(database.SessionFrom(c)).Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return detail(c, http.StatusConflict, "Username or email already registered")
		}
		return internalError(c, h.Log, "create user", err)
	}

	publishAudit(ctx, h.Audit, h.Log, queue.AuditEvent{
		Type: queue.EventUserRegistered, ActorID: u.ID, ActorUsername: u.Username, UserID: u.ID,
	})
	return c.NoContent(http.StatusCreated)
}

// Login handles POST /auth/token with a form-encoded username and password.
// Every verification failure gets the same 401 body.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	var missing []fieldError
	if username == "" {
		missing = append(missing, fieldError{Field: "username", Msg: "field required"})
	}
	if password == "" {
		missing = append(missing, fieldError{Field: "password", Msg: "field required"})
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"detail": missing})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Auth.Authenticate(ctx, repository.NewUserRepo(database.SessionFrom(c)), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return detail(c, http.StatusUnauthorized, "Username or ID not found")
		}
		return internalError(c, h.Log, "authenticate", err)
	}

	token, err := h.Auth.IssueToken(u)
	if err != nil {
		return internalError(c, h.Log, "issue token", err)
	}
	return c.JSON(http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}
