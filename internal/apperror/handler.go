package apperror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkravets/auth-service/internal/logging"
)

// HTTPErrorHandler translates *Error values into their JSON contract and
// collapses everything else into an opaque 500 so internals never leak
// to the caller.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	l := logging.FromContext(c.Request().Context())

	var apiErr *Error
	if errors.As(err, &apiErr) {
		if jsonErr := c.JSON(apiErr.Status, apiErr); jsonErr != nil {
			l.Error("error response write failed", "error", jsonErr)
		}
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if jsonErr := c.JSON(httpErr.Code, map[string]any{"message": httpErr.Message}); jsonErr != nil {
			l.Error("error response write failed", "error", jsonErr)
		}
		return
	}

	l.Error("unexpected error", "error", err)
	if jsonErr := c.JSON(http.StatusInternalServerError, map[string]any{"message": "Unexpected error"}); jsonErr != nil {
		l.Error("error response write failed", "error", jsonErr)
	}
}
