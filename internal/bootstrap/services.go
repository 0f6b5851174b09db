package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/adapters/gateway"
	"github.com/dtapi/booking-api/internal/adapters/natsbus"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data"
	"github.com/dtapi/booking-api/internal/observability/statsd"
	"github.com/dtapi/booking-api/internal/service"
)

// ServiceContainer holds the wired application services. Optional
// collaborators are nil interfaces when disabled.
type ServiceContainer struct {
	Booking       *service.BookingService
	Auth          *service.AuthService
	Notifications *service.NotificationService

	Jobs  *data.JobRepo
	Users *data.UserRepo

	Cache   core.JobCache
	Events  core.EventPublisher
	Metrics *statsd.Client

	closers []func() error
}

// Close releases the event connection and the metrics socket.
func (c *ServiceContainer) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices wires repositories, adapters and services from config.
// Misconfigured optional adapters are logged and left out; required ones fail.
func NewServices(ctx context.Context, deps *ServiceDeps) (*ServiceContainer, error) {
	if deps == nil || deps.Config == nil || deps.DB == nil {
		return nil, errors.New("config and database are required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &ServiceContainer{
		Jobs: data.NewJobRepo(deps.DB, data.RepoConfig{Logger: logger}),
		Users: data.NewUserRepo(deps.DB, data.UserRepoConfig{
			TranslatorRoleID: cfg.Roles.TranslatorRoleID,
			Logger:           logger,
		}),
	}

	c.Metrics = buildMetrics(cfg.Observability.Metrics, logger)
	if c.Metrics != nil {
		c.closers = append(c.closers, c.Metrics.Close)
	}

	if deps.RedisClient != nil && cfg.Booking.CacheTTL > 0 {
		c.Cache = core.NewJobCacheService(core.JobCacheServiceOptions{
			Cache:  data.NewRedisCacheRepo(data.RedisCacheOptions{Client: deps.RedisClient}),
			TTL:    cfg.Booking.CacheTTL,
			Logger: logger,
		})
	}

	if cfg.Events.Enabled {
		pub, err := natsbus.Connect(ctx, cfg.Events, logger)
		if err != nil {
			logger.WarnContext(ctx, "booking events disabled", "error", err)
		} else {
			c.Events = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	notifier, err := buildNotifier(cfg, c.Users, logger)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.Notifications = notifier

	var sink statsd.Sink = statsd.Noop{}
	if c.Metrics != nil {
		sink = c.Metrics
	}

	booking, err := service.NewBookingService(service.BookingServiceOptions{
		Jobs:     c.Jobs,
		Users:    c.Users,
		Notifier: notifier,
		Cache:    c.Cache,
		Events:   c.Events,
		Metrics:  sink,
		Roles:    cfg.Roles,
		Booking:  cfg.Booking,
		Logger:   logger,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("wire booking service: %w", err), c.Close())
	}
	c.Booking = booking

	c.Auth = BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		RedisClient: deps.RedisClient,
		Users:       c.Users,
		Logger:      logger,
	})

	return c, nil
}

// buildMetrics returns nil when metrics are off or the socket cannot be opened.
func buildMetrics(cfg config.MetricsConfig, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Logger:  logger,
	})
	if err != nil {
		logger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

func buildNotifier(cfg *config.AppConfig, users core.UserRepository, logger *slog.Logger) (*service.NotificationService, error) {
	opts := service.NotificationServiceOptions{
		Users:    users,
		Location: cfg.Booking.Location(),
		Logger:   logger,
	}
	base := gateway.Config{Timeout: cfg.Notify.Timeout, RetryLimit: cfg.Notify.RetryLimit}

	if push := cfg.Notify.Push; push.Enabled {
		pc := base
		pc.URL, pc.APIKey = push.URL, push.APIKey
		client, err := gateway.NewPushClient(gateway.PushConfig{Config: pc, PayloadExpr: push.PayloadExpr})
		if err != nil {
			return nil, fmt.Errorf("push gateway: %w", err)
		}
		opts.Push = client
	}
	if sms := cfg.Notify.SMS; sms.Enabled {
		sc := base
		sc.URL, sc.APIKey = sms.URL, sms.APIKey
		client, err := gateway.NewSMSClient(gateway.SMSConfig{Config: sc, Sender: sms.Sender})
		if err != nil {
			return nil, fmt.Errorf("sms gateway: %w", err)
		}
		opts.SMS = client
	}
	if opts.Push == nil && opts.SMS == nil {
		logger.Warn("no notification gateway enabled; translator notifications are dropped")
	}

	svc, err := service.NewNotificationService(opts)
	if err != nil {
		return nil, fmt.Errorf("wire notification service: %w", err)
	}
	return svc, nil
}
