package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/auth-service/internal/token"
)

type RequireAuth struct {
	Tokens *token.Service
}

func NewRequireAuth(tokens *token.Service) *RequireAuth {
	return &RequireAuth{Tokens: tokens}
}

// Handle admits requests carrying a valid bearer access token and
// stashes its claims in the echo context.
func (m *RequireAuth) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := m.Tokens.ValidateAccess(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)

		return next(c)
	}
}
