// Package devauth signs every login in as one configured identity, for local development.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/ports"
)

var _ ports.AuthProvider = (*Provider)(nil)

// Config is the identity handed out. Subject and Email are required.
type Config struct {
	Subject         string
	Name            string
	Email           string
	Groups          []string
	SessionDuration time.Duration // 8h when zero
	CallbackPath    string        // /auth/callback when empty
}

// Provider skips the identity provider and redirects straight to the callback.
type Provider struct {
	identity     domainauth.Identity
	duration     time.Duration
	callbackPath string
	now          func() time.Time
}

func NewProvider(cfg Config) (*Provider, error) {
	if cfg.Subject == "" {
		return nil, errors.New("dev auth: subject is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: email is required")
	}
	dur := cfg.SessionDuration
	if dur <= 0 {
		dur = 8 * time.Hour
	}
	path := cfg.CallbackPath
	if path == "" {
		path = "/auth/callback"
	}
	return &Provider{
		identity: domainauth.Identity{
			Subject: cfg.Subject,
			Name:    cfg.Name,
			Email:   cfg.Email,
			Groups:  append([]string(nil), cfg.Groups...),
		},
		duration:     dur,
		callbackPath: path,
		now:          time.Now,
	}, nil
}

func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	state, err := randomHex(16)
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomHex(16)
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}
	return p.callbackPath + "?code=dev&state=" + state, state, nonce, nil
}

// Exchange ignores the code and returns the configured identity with a fresh expiry.
func (p *Provider) Exchange(_ context.Context, _ ports.ExchangeInput) (domainauth.Identity, error) {
	id := p.identity
	id.Groups = append([]string(nil), p.identity.Groups...)
	id.ExpiresAt = p.now().Add(p.duration)
	return id, nil
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
