package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dtapi/booking-api/internal/ports"
)

// newIssuer serves a discovery document whose token endpoint rejects every code.
func newIssuer(t *testing.T) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(DiscoveryDocument{
			Issuer:                srv.URL,
			AuthorizationEndpoint: srv.URL + "/auth",
			TokenEndpoint:         srv.URL + "/token",
			UserinfoEndpoint:      srv.URL + "/userinfo",
			JwksURI:               srv.URL + "/jwks",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestProvider(t *testing.T) (*Provider, *httptest.Server) {
	t.Helper()
	srv := newIssuer(t)
	p, err := NewProvider(ProviderConfig{
		ClientID:     "booking-api",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scope:        "openid profile email groups",
		DiscoveryURL: srv.URL + "/.well-known/openid-configuration",
		LogoutURL:    "https://idp.example.com/logout",
	})
	require.NoError(t, err)
	return p, srv
}

func TestNewProvider_Discovery(t *testing.T) {
	p, srv := newTestProvider(t)
	assert.Equal(t, srv.URL+"/auth", p.config.Endpoint.AuthURL)
	assert.Equal(t, srv.URL+"/token", p.config.Endpoint.TokenURL)
	assert.Equal(t, "https://idp.example.com/logout", p.LogoutURL())
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name:   "missing client ID",
			config: ProviderConfig{ClientSecret: "s", RedirectURL: "http://localhost/cb", DiscoveryURL: "http://idp"},
			errMsg: "client ID is required",
		},
		{
			name:   "missing client secret",
			config: ProviderConfig{ClientID: "c", RedirectURL: "http://localhost/cb", DiscoveryURL: "http://idp"},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			config: ProviderConfig{ClientID: "c", ClientSecret: "s", DiscoveryURL: "http://idp"},
			errMsg: "redirect URL is required",
		},
		{
			name:   "missing discovery URL",
			config: ProviderConfig{ClientID: "c", ClientSecret: "s", RedirectURL: "http://localhost/cb"},
			errMsg: "discovery URL is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Begin(t *testing.T) {
	p, srv := newTestProvider(t)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "http://localhost:8080/auth/callback"})
	require.NoError(t, err)
	assert.Len(t, state, 32)
	assert.Len(t, nonce, 32)
	assert.NotEqual(t, state, nonce)
	assert.Contains(t, authURL, srv.URL+"/auth")
	assert.Contains(t, authURL, "client_id=booking-api")
	assert.Contains(t, authURL, "state="+state)
	assert.Contains(t, authURL, "nonce="+nonce)

	_, _, _, err = p.Begin(context.Background(), ports.BeginInput{})
	require.Error(t, err)
}

func TestProvider_Exchange_Validation(t *testing.T) {
	p, _ := newTestProvider(t)

	tests := []struct {
		name   string
		input  ports.ExchangeInput
		errMsg string
	}{
		{name: "missing code", input: ports.ExchangeInput{State: "s", Nonce: "n"}, errMsg: "authorization code is required"},
		{name: "missing state", input: ports.ExchangeInput{Code: "c", Nonce: "n"}, errMsg: "state is required"},
		{name: "missing nonce", input: ports.ExchangeInput{Code: "c", State: "s"}, errMsg: "nonce is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Exchange(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Exchange_RejectedCode(t *testing.T) {
	p, _ := newTestProvider(t)

	_, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "bad", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestProvider_IDTokenClaims_MissingToken(t *testing.T) {
	p, _ := newTestProvider(t)

	tok := (&oauth2.Token{}).WithExtra(map[string]any{"not_id": "x"})
	_, err := p.idTokenClaims(context.Background(), tok, "n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id_token")
}

func TestClaims_Identity(t *testing.T) {
	exp := time.Date(2026, 3, 10, 13, 0, 0, 0, time.UTC)

	c := claims{
		Subject:    "sub-1",
		Email:      " Anna@Example.com ",
		GivenName:  "Anna",
		FamilyName: "Berg",
		Roles:      []string{"booking-users"},
	}
	id := c.identity(exp)
	assert.Equal(t, "sub-1", id.Subject)
	assert.Equal(t, "anna@example.com", id.Email)
	assert.Equal(t, "Anna Berg", id.Name)
	assert.Equal(t, []string{"booking-users"}, id.Groups)
	assert.Equal(t, exp, id.ExpiresAt)

	c = claims{Subject: "sub-2", PreferredUsername: "bo@example.com", Name: "Bo", Groups: []string{"g"}}
	id = c.identity(exp)
	assert.Equal(t, "bo@example.com", id.Email)
	assert.Equal(t, "Bo", id.Name)
	assert.Equal(t, []string{"g"}, id.Groups)
}

func TestClaims_FillFrom(t *testing.T) {
	c := claims{Subject: "keep", Groups: []string{"x"}}
	c.fillFrom(claims{Subject: "other", Email: "mail@example.com", Name: "N", Groups: []string{"y"}})

	assert.Equal(t, "keep", c.Subject)
	assert.Equal(t, "mail@example.com", c.Email)
	assert.Equal(t, "N", c.Name)
	assert.Equal(t, []string{"x"}, c.Groups)
}

func TestRandomToken(t *testing.T) {
	a, err := randomToken(16)
	require.NoError(t, err)
	assert.Len(t, a, 16)

	b, err := randomToken(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	empty, err := randomToken(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
