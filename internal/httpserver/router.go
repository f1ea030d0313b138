package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookvault/api/internal/middleware"
)

type Deps struct {
	Auth  *AuthHTTP
	Users *UsersHTTP
	Guard *middleware.Guard
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/login", d.Auth.Login)
	auth.POST("/register", d.Auth.Register)
	auth.POST("/refresh", d.Auth.Refresh, d.Guard.RequireRefresh)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/me", d.Auth.Me, d.Guard.RequireAccess)

	users := e.Group("/users", d.Guard.RequireAccess)
	users.GET("", d.Users.List, middleware.Authorize("users.list"))
	users.POST("", d.Users.Create, middleware.Authorize("users.create"))
	users.GET("/:id", d.Users.Get, middleware.Authorize("users.get"))
	users.PATCH("/:id", d.Users.Update, middleware.Authorize("users.update"))
	users.DELETE("/:id", d.Users.Delete, middleware.Authorize("users.delete"))
}
