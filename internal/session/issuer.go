package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"strconv"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

// Issuer hands out signed random tokens and resolves them back to roles.
// The signature only filters forgeries early; the store decides which
// tokens exist and what role they carry.
type Issuer struct {
	Store  Store
	Secret []byte
	Now    func() time.Time
}

func NewIssuer(store Store, secret []byte) *Issuer {
	return &Issuer{Store: store, Secret: secret, Now: time.Now}
}

// RandomSecret returns 32 random bytes for deployments that do not set
// TOKEN_SECRET.
func RandomSecret() ([]byte, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (i *Issuer) Issue(ctx context.Context, user *models.User) (string, error) {
	now := time.Now
	if i.Now != nil {
		now = i.Now
	}
	claims := tokens.NewSessionClaims(strconv.FormatUint(uint64(user.ID), 10), user.Role, now())
	token, err := tokens.SignSession(claims, i.Secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	if err := i.Store.Put(ctx, token, user.Role); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}
	return token, nil
}

// RoleOf fails closed: store errors are logged and treated as unknown.
func (i *Issuer) RoleOf(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	if _, err := tokens.SessionClaimsFromToken(token, i.Secret); err != nil {
		return "", false
	}
	role, ok, err := i.Store.Get(ctx, token)
	if err != nil {
		logging.FromContext(ctx).Error("session_lookup_error", "reason", "session store unavailable", "error", err)
		return "", false
	}
	return role, ok
}
