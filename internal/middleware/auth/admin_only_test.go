package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
)

func newGate(t *testing.T) (*Gate, string, string) {
	t.Helper()
	iss := session.NewIssuer(session.NewMemoryStore(), []byte("gate-test-secret"))
	adminTok, err := iss.Issue(context.Background(), &models.User{ID: 1, Username: "admin", Role: models.RoleAdmin})
	require.NoError(t, err)
	userTok, err := iss.Issue(context.Background(), &models.User{ID: 2, Username: "bob", Role: models.RoleUser})
	require.NoError(t, err)
	return NewGate(iss), adminTok, userTok
}

func header(v string) http.Header {
	h := http.Header{}
	if v != "" {
		h.Set("Authorization", v)
	}
	return h
}

func TestAuthorizeAdmin(t *testing.T) {
	g, adminTok, userTok := newGate(t)

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "admin token", header: "Bearer " + adminTok, want: true},
		{name: "trailing words ignored", header: "Bearer " + adminTok + " extra", want: true},
		{name: "absent header", header: "", want: false},
		{name: "missing prefix", header: adminTok, want: false},
		{name: "lowercase scheme", header: "bearer " + adminTok, want: false},
		{name: "basic scheme", header: "Basic " + adminTok, want: false},
		{name: "empty token", header: "Bearer ", want: false},
		{name: "double space", header: "Bearer  " + adminTok, want: false},
		{name: "unknown token", header: "Bearer not-a-token", want: false},
		{name: "legacy username token", header: "Bearer token-admin", want: false},
		{name: "user role", header: "Bearer " + userTok, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, g.AuthorizeAdmin(context.Background(), header(tt.header)))
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	g, adminTok, userTok := newGate(t)
	denied := 0
	g.OnDeny = func() { denied++ }

	e := echo.New()
	e.POST("/categories", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"role": c.Get("role")})
	}, g.RequireAdmin)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Unauthorized"}`, rec.Body.String())
	assert.Equal(t, 1, denied)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/categories", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"role":"admin"}`, rec.Body.String())
	assert.Equal(t, 1, denied)
}
