package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/internal/ports"
)

func TestNewProvider_Requires(t *testing.T) {
	_, err := NewProvider(Config{Email: "dev@example.com"})
	require.ErrorContains(t, err, "subject is required")

	_, err = NewProvider(Config{Subject: "dev"})
	require.ErrorContains(t, err, "email is required")
}

func TestProvider_BeginAndExchange(t *testing.T) {
	prov, err := NewProvider(Config{Subject: "dev-user", Name: "Dev", Email: "dev@example.com", Groups: []string{"admins"}})
	require.NoError(t, err)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prov.now = func() time.Time { return now }

	url, state, nonce, err := prov.Begin(context.Background(), ports.BeginInput{RedirectURL: "/"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/auth/callback?code=dev&state="), url)
	assert.Contains(t, url, state)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)

	id, err := prov.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev-user", id.Subject)
	assert.Equal(t, "dev@example.com", id.Email)
	assert.Equal(t, []string{"admins"}, id.Groups)
	assert.Equal(t, now.Add(8*time.Hour), id.ExpiresAt)

	id.Groups[0] = "mutated"
	again, err := prov.Exchange(context.Background(), ports.ExchangeInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"admins"}, again.Groups)
}
