package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/singh-deepanshu-578/SmartCare-HMS/internal/platform/auth"
)

// Logger writes one line per request once the error handler has rendered
// the response. Server errors log at error level, client errors at warn. The
// caller identity is read after the handler ran because authentication sits
// inside this middleware.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		HandleError: true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogURIPath:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			evt := logger.Info()
			switch {
			case v.Status >= http.StatusInternalServerError:
				evt = logger.Error().Err(v.Error)
			case v.Status >= http.StatusBadRequest:
				evt = logger.Warn()
			}
			if uid := auth.UserIDFromContext(c.Request().Context()); uid != "" {
				evt = evt.Str("user_id", uid)
			}
			evt.
				Str("request_id", requestIDOf(c)).
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
