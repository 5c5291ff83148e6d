// Package session maps issued bearer tokens to the role captured at login.
package session

import "context"

// Store holds token -> role. Implementations must be safe for concurrent
// use. Entries never expire.
type Store interface {
	Put(ctx context.Context, token, role string) error
	// Get reports ok=false for unknown tokens.
	Get(ctx context.Context, token string) (role string, ok bool, err error)
}
