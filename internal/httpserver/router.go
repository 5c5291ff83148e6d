package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Auth    *service.AuthService
	Catalog *service.CatalogService
	Gate    *auth.Gate
	Metrics *metrics.Metrics
	DB      Pinger
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", readiness(d.DB))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	authHTTP := &AuthHTTP{Svc: d.Auth, Metrics: d.Metrics}
	catalogHTTP := &CatalogHTTP{Svc: d.Catalog, Metrics: d.Metrics}

	api := e.Group("/api")
	api.POST("/register", authHTTP.Register)
	api.POST("/login", authHTTP.Login)

	admin := d.Gate.RequireAdmin

	e.POST("/add-product", catalogHTTP.AddProduct, admin)

	products := e.Group("/products")
	products.GET("", catalogHTTP.ListProducts)
	products.GET("/search", catalogHTTP.SearchProducts)

	categories := e.Group("/categories")
	categories.GET("", catalogHTTP.ListCategories)
	categories.POST("", catalogHTTP.AddCategory, admin)
	categories.DELETE("/:id", catalogHTTP.DeleteCategory, admin)
}

func readiness(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx := c.Request().Context()
		if err := db.Ping(ctx); err != nil {
			logging.FromContext(ctx).Error("readiness_error", "status", 503, "error", err)
			return echo.NewHTTPError(http.StatusServiceUnavailable, "database unavailable")
		}
		return c.NoContent(http.StatusOK)
	}
}
