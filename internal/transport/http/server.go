// Package http provides the HTTP server for the dairy assistant.
package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/miru4128/gaayatri-project/internal/auth"
	"github.com/miru4128/gaayatri-project/internal/service"
	v1 "github.com/miru4128/gaayatri-project/internal/transport/http/v1"
	"github.com/miru4128/gaayatri-project/internal/transport/ws"
)

// NewServer creates and configures the HTTP server: the JSON API under /v1
// and the realtime chat socket at /v1/chat/ws.
func NewServer(svc *service.Service, tokens *auth.TokenService, wsCfg ws.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(requestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	authMW := auth.RequireAuth(tokens)

	v1Handler := v1.NewHandler(svc)
	v1Handler.RegisterRoutes(e, authMW)

	wsHandler := ws.NewHandler(svc, wsCfg)
	e.GET("/v1/chat/ws", wsHandler.Serve, authMW)

	return e
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Error != nil {
				event = log.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency.Round(time.Microsecond)).
				Msg("request")
			return nil
		},
	})
}
