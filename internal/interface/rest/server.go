package rest

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/interface/rest/middleware"
)

// maxUpload bounds multipart recording uploads.
const maxUpload = "512M"

// NewServer assembles the echo instance with the shared middleware stack.
func NewServer(cfg config.ServerConfig, serviceName string, h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(serviceName))
	e.Use(echomw.Logger())
	if len(cfg.CORSOrigins) > 0 {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	} else {
		e.Use(echomw.CORS())
	}
	e.Use(echomw.BodyLimit(maxUpload))
	e.Use(middleware.IdentifyActor)

	h.RegisterRoutes(e)
	return e
}
