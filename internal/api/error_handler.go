package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adroid/pool-registry/internal/api/handler"
	"github.com/adroid/pool-registry/internal/core/domain"
)

const (
	msgValidation = "Validation Error"
	msgServer     = "Server Error"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Renders field failures under "errors" for validation errors.
//   - Logs unexpected errors and answers 500 with the cause in "error".
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.Response) {
	// Echo's own errors (bind failures, 404 from router, 405, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.Response{Message: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.Response{Message: msgValidation, Errors: ve.Fields}
	}

	if code, ok := statusFor(err); ok {
		return code, handler.Response{Message: err.Error()}
	}

	// Unexpected error: log the real cause.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.Response{Message: msgServer, Error: err.Error()}
}

func statusFor(err error) (int, bool) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, true
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, domain.ErrConflict):
		return http.StatusBadRequest, true
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, true
	default:
		return 0, false
	}
}
