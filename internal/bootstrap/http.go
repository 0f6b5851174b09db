package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtapi/booking-api/config"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	httpx "github.com/dtapi/booking-api/internal/http"
	"github.com/dtapi/booking-api/internal/ports"
)

const defaultShutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config      *config.AppConfig
	Services    *ServiceContainer
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// closedSessions rejects every session so job routes answer 401 without auth.
type closedSessions struct{}

func (closedSessions) GetSession(context.Context, string) (*domainauth.Session, error) {
	return nil, ports.ErrSessionNotFound
}

// BuildRouterServices maps the container onto the router's dependencies.
func BuildRouterServices(cfg *HTTPServerConfig) httpx.RouterServices {
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}
	rs := httpx.RouterServices{
		Health:    healthChecks(cfg.DB, cfg.RedisClient),
		HTTP:      appCfg.HTTP,
		RateLimit: appCfg.RateLimit,
		LogoutURL: appCfg.Auth.OAuth.LogoutURL,
		Logger:    cfg.Logger,
	}

	svc := cfg.Services
	if svc == nil {
		return rs
	}
	if svc.Booking != nil {
		rs.Booking = svc.Booking
	}
	if svc.Users != nil {
		rs.Accounts = svc.Users
	}
	if svc.Auth != nil {
		rs.Auth = svc.Auth
		rs.Sessions = svc.Auth
	} else {
		rs.Sessions = closedSessions{}
	}
	return rs
}

func healthChecks(db *sql.DB, client redis.UniversalClient) map[string]httpx.Pinger {
	checks := make(map[string]httpx.Pinger, 2)
	if db != nil {
		checks["postgres"] = httpx.PingFunc(db.PingContext)
	}
	if client != nil {
		checks["redis"] = httpx.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}
	return checks
}

// StartHTTPServer builds the router and serves it in the background.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	var httpCfg config.HTTPConfig
	if cfg.Config != nil {
		httpCfg = cfg.Config.HTTP
	}

	handler := httpx.NewRouter(BuildRouterServices(cfg))
	return startServer(cfg.Logger, handler, httpCfg)
}

func startServer(logger *slog.Logger, handler http.Handler, cfg config.HTTPConfig) *http.Server {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       orDefault(cfg.ReadTimeout, 30*time.Second),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      orDefault(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), orDefault(cfg.Timeout, defaultShutdownTimeout))
	defer cancel()
	if err := cfg.Server.Shutdown(ctx); err != nil {
		return err
	}

	logger.Info("HTTP server stopped")
	return nil
}
