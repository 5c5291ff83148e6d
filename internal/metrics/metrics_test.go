package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsStatus(t *testing.T) {
	m := New("storefront_test")
	e := echo.New()
	e.Use(m.Middleware)
	e.GET("/ok", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.POST("/categories", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	})

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/categories", nil))
	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/categories", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("POST", "/categories", "403")))
}

func TestHandler_Exposes(t *testing.T) {
	m := New("storefront_test")
	m.AdminDenied.Inc()
	m.AuthAttempts.WithLabelValues("login", "ok").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(body, "storefront_test_admin_denied_total 1"))
	assert.Contains(t, body, `storefront_test_auth_attempts_total{op="login",result="ok"} 1`)
}
