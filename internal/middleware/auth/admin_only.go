package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

const bearerPrefix = "Bearer "

// RoleResolver is satisfied by *session.Issuer.
type RoleResolver interface {
	RoleOf(ctx context.Context, token string) (string, bool)
}

type Gate struct {
	Sessions RoleResolver
	// OnDeny is called for every rejected request when set.
	OnDeny func()
}

func NewGate(sessions RoleResolver) *Gate {
	return &Gate{Sessions: sessions}
}

// BearerToken extracts <token> from "Authorization: Bearer <token>". Only
// the first space-separated word after the prefix is used.
func BearerToken(h http.Header) (string, bool) {
	v := h.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(v, bearerPrefix) {
		return "", false
	}
	token, _, _ := strings.Cut(strings.TrimPrefix(v, bearerPrefix), " ")
	if token == "" {
		return "", false
	}
	return token, true
}

func (g *Gate) AuthorizeAdmin(ctx context.Context, h http.Header) bool {
	token, ok := BearerToken(h)
	if !ok {
		return false
	}
	role, ok := g.Sessions.RoleOf(ctx, token)
	return ok && role == models.RoleAdmin
}

func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		if !g.AuthorizeAdmin(ctx, c.Request().Header) {
			logging.FromContext(ctx).Warn("admin_gate_denied", "status", 403, "route", c.Path())
			if g.OnDeny != nil {
				g.OnDeny()
			}
			return echo.NewHTTPError(http.StatusForbidden, "Unauthorized")
		}
		c.Set("role", models.RoleAdmin)
		return next(c)
	}
}
