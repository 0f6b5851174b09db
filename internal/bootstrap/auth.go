package bootstrap

import (
	"log/slog"
	"net/url"

	"github.com/redis/go-redis/v9"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/adapters/authroles"
	"github.com/dtapi/booking-api/internal/adapters/devauth"
	"github.com/dtapi/booking-api/internal/adapters/oidc"
	redisadapter "github.com/dtapi/booking-api/internal/adapters/redis"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/ports"
	"github.com/dtapi/booking-api/internal/service"
)

// AuthConfig contains the dependencies of the auth service.
type AuthConfig struct {
	Auth        config.AuthConfig
	RedisClient redis.UniversalClient
	Users       core.UserRepository
	Logger      *slog.Logger
}

// BuildAuthService creates the login service for the configured auth mode.
// It returns nil, with a warning, when auth cannot be configured; every job
// route then answers 401.
func BuildAuthService(cfg AuthConfig) *service.AuthService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RedisClient == nil {
		logger.Warn("auth service disabled: redis client not configured", "mode", cfg.Auth.Mode)
		return nil
	}
	if cfg.Users == nil {
		logger.Warn("auth service disabled: user repository not configured", "mode", cfg.Auth.Mode)
		return nil
	}

	var (
		provider ports.AuthProvider
		err      error
	)
	switch cfg.Auth.Mode {
	case config.AuthModeMock:
		provider, err = buildDevAuthProvider(cfg.Auth)
	case config.AuthModeOAuth:
		provider, err = buildOIDCProvider(cfg.Auth.OAuth, logger)
	default:
		logger.Warn("auth service disabled: unknown mode", "mode", cfg.Auth.Mode)
		return nil
	}
	if err != nil {
		logger.Warn("failed to create auth provider, auth disabled", "mode", cfg.Auth.Mode, "error", err)
		return nil
	}
	if provider == nil {
		return nil
	}

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider: provider,
		Sessions: redisadapter.NewSessionStore(redisadapter.SessionStoreOptions{Client: cfg.RedisClient}),
		Roles: authroles.StaticRoleMapper{
			AdminGroup: cfg.Auth.AdminGroup,
			UserGroup:  cfg.Auth.UserGroup,
		},
		Users:  cfg.Users,
		Logger: logger,
	})
	if err != nil {
		logger.Warn("failed to create auth service, auth disabled", "error", err)
		return nil
	}
	return svc
}

//nolint:ireturn // either provider satisfies the same port.
func buildDevAuthProvider(cfg config.AuthConfig) (ports.AuthProvider, error) {
	return devauth.NewProvider(devauth.Config{
		Subject:      cfg.DevAuth.Subject,
		Name:         cfg.DevAuth.Name,
		Email:        cfg.DevAuth.Email,
		Groups:       cfg.DevAuth.Groups,
		CallbackPath: callbackPath(cfg.OAuth.RedirectURL),
	})
}

//nolint:ireturn // either provider satisfies the same port.
func buildOIDCProvider(cfg config.OAuthConfig, logger *slog.Logger) (ports.AuthProvider, error) {
	if cfg.DiscoveryURL == "" || cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Warn("AUTH_MODE=oauth selected but required config missing; auth disabled",
			"discovery_url_empty", cfg.DiscoveryURL == "",
			"client_id_empty", cfg.ClientID == "",
			"client_secret_empty", cfg.ClientSecret == "",
		)
		return nil, nil
	}
	return oidc.NewProvider(oidc.ProviderConfig{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scope:        cfg.Scope,
		DiscoveryURL: cfg.DiscoveryURL,
		LogoutURL:    cfg.LogoutURL,
	})
}

// callbackPath keeps the path of the configured redirect URL so dev logins
// land on the same route as real ones.
func callbackPath(redirectURL string) string {
	u, err := url.Parse(redirectURL)
	if err != nil || u.Path == "" {
		return ""
	}
	return u.Path
}
