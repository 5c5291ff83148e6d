package loggingmw

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/pkg/logging"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var last []byte
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		last = append([]byte(nil), sc.Bytes()...)
	}
	require.NotEmpty(t, last)
	var m map[string]any
	require.NoError(t, json.Unmarshal(last, &m))
	return m
}

func TestRequestLogger_RendersHandlerError(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/boom", func(c echo.Context) error {
		logging.FromContext(c.Request().Context()).Info("inside")
		return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())

	line := lastLine(t, &buf)
	assert.Equal(t, "request_completed", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.EqualValues(t, 403, line["status"])
	assert.Equal(t, "/boom", line["route"])
}

func TestRequestLogger_SuccessIncludesRole(t *testing.T) {
	var buf bytes.Buffer
	e := echo.New()
	e.Use(RequestLogger(logging.NewWithWriter(&buf, "info")))
	e.GET("/ok", func(c echo.Context) error {
		c.Set("role", "admin")
		return c.NoContent(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	line := lastLine(t, &buf)
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "admin", line["role"])
}
