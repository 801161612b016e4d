package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/auth-service/internal/middleware"
	"github.com/mkravets/auth-service/internal/token"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Tokens      *token.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	api.POST("/registration", d.AuthHandler.Registration)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/logout", d.AuthHandler.Logout)
	api.POST("/refresh", d.AuthHandler.Refresh)
	api.GET("/activate/:link", d.AuthHandler.Activate)

	authMw := middleware.NewRequireAuth(d.Tokens)

	private := api.Group("")
	private.Use(authMw.Handle)

	private.GET("/users", d.AuthHandler.Users)
}
