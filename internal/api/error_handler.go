package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staffdir/employee-directory/internal/api/handler"
	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/pkg/logger"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Renders validation failures as a 400 with the per-field errors list.
//   - Logs unexpected errors and returns their message with a 500.
//   - Renders the response envelope: {"success": false, "message": ..., "errors": [...]}.
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

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.Envelope) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, handler.Envelope{Errors: ve.Violations}
	}

	switch {
	case errors.Is(err, domain.ErrEmployeeNotFound):
		return http.StatusNotFound, handler.Envelope{Message: "Employee not found"}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusBadRequest, handler.Envelope{Message: "Email already exists"}
	case errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest, handler.Envelope{Message: "Invalid ID format"}
	case errors.Is(err, domain.ErrRequestInProgress):
		return http.StatusConflict, handler.Envelope{Message: "A request with this Idempotency-Key is still in progress"}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, c, err)
		}
		return he.Code, handler.Envelope{Message: msg}
	}

	logUnhandled(log, c, err)
	return http.StatusInternalServerError, handler.Envelope{Message: err.Error()}
}

func logUnhandled(log zerolog.Logger, c echo.Context, err error) {
	l := logger.ForRequest(log, c.Response().Header().Get(echo.HeaderXRequestID))
	l.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
