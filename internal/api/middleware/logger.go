package middleware

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// RequestLogger logs one structured line per request. 5xx responses are
// logged at error level, 4xx at warn.
func RequestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			var event *zerolog.Event
			switch {
			case v.Status >= 500:
				event = log.Error().Err(v.Error)
			case v.Status >= 400:
				event = log.Warn()
			default:
				event = log.Info()
			}

			event.
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("ip", v.RemoteIP).
				Str("user_agent", v.UserAgent).
				Msg("http request")
			return nil
		},
	})
}
