package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/storefront/pkg/middleware/logging"
)

const maxBodySize = "10M"

// New builds the echo instance with the middleware chain and all routes.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware)
		if d.Gate != nil && d.Gate.OnDeny == nil {
			d.Gate.OnDeny = d.Metrics.AdminDenied.Inc
		}
	}
	e.Use(echomw.CORS())
	e.Use(echomw.BodyLimit(maxBodySize))

	Register(e, d)
	return e
}
