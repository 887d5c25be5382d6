package router // package router wires handlers and middleware onto routes

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/todo-app/internal/handler"
	"github.com/iliyamo/todo-app/internal/middleware"
	"github.com/iliyamo/todo-app/internal/model"
	"github.com/iliyamo/todo-app/internal/security"
)

// RegisterRoutes registers routes that need neither a session nor a token.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration and login. limiter guards login only.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, session, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth", session)
	g.POST("/", a.Register)
	g.POST("/token", a.Login, limiter)
}

// RegisterTodos registers the caller-scoped todo routes at the root. They
// are attached per route so / has no group-wide catch-all.
func RegisterTodos(e *echo.Echo, t *handler.TodoHandler, codec *security.TokenCodec, session, cache echo.MiddlewareFunc) {
	mw := []echo.MiddlewareFunc{session, middleware.JWTAuth(codec), cache}
	e.GET("/", t.ReadAll, mw...)
	e.GET("/todo/:id", t.ReadOne, mw...)
	e.POST("/todo", t.Create, mw...)
	e.PUT("/todo/:id", t.Update, mw...)
	e.DELETE("/todo/:id", t.Delete, mw...)
}

// RegisterAdmin registers the unscoped admin routes. purge drops every
// cached response after a successful admin mutation.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, codec *security.TokenCodec, session, purge echo.MiddlewareFunc) {
	g := e.Group("/admin", session, middleware.JWTAuth(codec), middleware.RequireRole(model.RoleAdmin), purge)
	g.GET("/todo", a.ReadAllTodos)
	g.DELETE("/todo/:id", a.DeleteTodo)
}

// RegisterUsers registers the caller's account routes.
func RegisterUsers(e *echo.Echo, u *handler.UserHandler, codec *security.TokenCodec, session echo.MiddlewareFunc) {
	g := e.Group("/users", session, middleware.JWTAuth(codec))
	g.GET("/me", u.Me)
	g.PUT("/me/password", u.UpdatePassword)
	g.PUT("/me/phone_number/:phone", u.UpdatePhoneNumber)
}
