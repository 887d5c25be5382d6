package router

import (
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/todo-app/internal/auth"
	"github.com/iliyamo/todo-app/internal/handler"
	"github.com/iliyamo/todo-app/internal/security"
)

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func TestRoutesRegistered(t *testing.T) {
	log := logrus.New()
	codec, err := security.NewTokenCodec("s", "HS256")
	require.NoError(t, err)
	hasher := security.NewHasher(bcrypt.MinCost)
	authn, err := auth.NewAuthenticator(hasher, codec, time.Minute)
	require.NoError(t, err)

	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(authn, hasher, nil, log), passThrough, passThrough)
	RegisterTodos(e, handler.NewTodoHandler(log), codec, passThrough, passThrough)
	RegisterAdmin(e, handler.NewAdminHandler(nil, log), codec, passThrough, passThrough)
	RegisterUsers(e, handler.NewUserHandler(hasher, nil, log), codec, passThrough)

	got := map[string]bool{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /auth/",
		"POST /auth/token",
		"GET /",
		"GET /todo/:id",
		"POST /todo",
		"PUT /todo/:id",
		"DELETE /todo/:id",
		"GET /admin/todo",
		"DELETE /admin/todo/:id",
		"GET /users/me",
		"PUT /users/me/password",
		"PUT /users/me/phone_number/:phone",
	} {
		assert.True(t, got[want], "missing route %s", want)
	}
	assert.False(t, got[http.MethodGet+" /todo"], "list lives at /")
}
