package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/httpserver"
	"github.com/Skotchmaster/storefront/internal/middleware/auth"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/storage"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	pkgdb "github.com/Skotchmaster/storefront/pkg/db"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

func newStorefront(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	db, err := pkgdb.Open(ctx, pkgdb.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(ctx, db))
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	images, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	r := &repo.GormRepo{DB: db}
	issuer := session.NewIssuer(session.NewMemoryStore(), []byte("smoke-secret"))
	e := httpserver.New(logging.NewWithWriter(io.Discard, "error"), &httpserver.Deps{
		Auth:    &service.AuthService{Repo: r, Sessions: issuer, Events: events.Nop{}},
		Catalog: &service.CatalogService{Repo: r, Images: images, Index: search.Disabled{}, Events: events.Nop{}},
		Gate:    auth.NewGate(issuer),
		DB:      r,
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunSmoke(t *testing.T) {
	srv := newStorefront(t)
	ctx := context.Background()
	logger := logging.NewWithWriter(io.Discard, "error")

	c := apiclient.NewClient(srv.URL)
	_, err := c.Register(ctx, apiclient.RegisterRequest{
		Username: "admin", Password: "pw", Email: "a@example.com",
		Phone: "1", FullName: "Admin", Age: 30, Gender: "x",
	})
	require.NoError(t, err)

	rep, err := runSmoke(ctx, apiclient.NewClient(srv.URL), "", "", logger)
	require.NoError(t, err)
	assert.Equal(t, &smokeReport{}, rep)

	rep, err = runSmoke(ctx, apiclient.NewClient(srv.URL), "admin", "pw", logger)
	require.NoError(t, err)
	assert.Equal(t, "admin", rep.Role)

	_, err = runSmoke(ctx, apiclient.NewClient(srv.URL), "admin", "wrong", logger)
	var se *apiclient.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestRunSmoke_NotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"database unavailable"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := runSmoke(context.Background(), apiclient.NewClient(srv.URL), "", "", logging.NewWithWriter(io.Discard, "error"))
	var se *apiclient.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "database unavailable", se.Message)
}
