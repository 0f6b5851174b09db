// Package ports defines the login flow ports. Implementations live in
// internal/adapters; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get for unknown or lapsed sessions.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating a login.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider runs a login against an identity provider.
type AuthProvider interface {
	// Begin returns the provider URL to redirect to, plus the state and nonce to verify on return.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, error)
}

// SessionStore persists sessions. Get returns ErrSessionNotFound for unknown ids.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// RoleMapper maps directory groups to a session role.
type RoleMapper interface {
	Map(groups []string) domainauth.Role
}
