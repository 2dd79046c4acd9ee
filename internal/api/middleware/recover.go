package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/staffdir/employee-directory/pkg/logger"
)

// Recover turns handler panics into errors for the central error handler and
// logs the stack through log.
func Recover(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			l := logger.ForRequest(log, c.Response().Header().Get(echo.HeaderXRequestID))
			l.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Bytes("stack", stack).
				Msg("panic recovered")
			return err
		},
	})
}
