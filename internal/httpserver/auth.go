package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/auth-service/internal/logging"
	"github.com/mkravets/auth-service/internal/service"
	"github.com/mkravets/auth-service/internal/transport"
)

type AuthHTTP struct {
	Svc        *service.UsersService
	RefreshTTL time.Duration
}

func (h *AuthHTTP) Registration(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "registration")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		l.Warn("registration rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	res, err := h.Svc.Registration(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(createCookie(refreshCookieName, res.RefreshToken, "/", time.Now().Add(h.RefreshTTL)))

	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "login")

	var req transport.CredentialsRequest
	if err := c.Bind(&req); err != nil || req.Email == "" || req.Password == "" {
		l.Warn("login rejected", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(createCookie(refreshCookieName, res.RefreshToken, "/", time.Now().Add(h.RefreshTTL)))

	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
			return err
		}
	}

	c.SetCookie(deleteCookie(refreshCookieName, "/"))

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var raw string
	if cookie, err := c.Cookie(refreshCookieName); err == nil {
		raw = cookie.Value
	}

	res, err := h.Svc.Refresh(ctx, raw)
	if err != nil {
		return err
	}

	c.SetCookie(createCookie(refreshCookieName, res.RefreshToken, "/", time.Now().Add(h.RefreshTTL)))

	return c.JSON(http.StatusOK, res)
}

func (h *AuthHTTP) Activate(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.Activate(ctx, c.Param("link")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "account activated"})
}

func (h *AuthHTTP) Users(c echo.Context) error {
	users, err := h.Svc.AllUsers(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}
