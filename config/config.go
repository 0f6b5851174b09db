package config

import (
	"os"
	"strings"
)

// AppConfig is the booking API configuration, composed from the domain
// config files in this package and loaded with github.com/caarlos0/env:
//   - auth.go: authentication and role identifiers
//   - database.go: Postgres and Redis
//   - http.go: HTTP server and resend throttling
//   - booking.go: booking rules, notifications and events
//   - services.go: service modes and the expiry loop
type AppConfig struct {
	// IsDev enables development behaviour. DEV=true or NODE_ENV=development.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth  AuthConfig
	Roles RolesConfig

	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	HTTP      HTTPConfig
	RateLimit RateLimitConfig `envPrefix:"RESEND_RATE_"`

	Booking BookingConfig `envPrefix:"BOOKING_"`
	Notify  NotifyConfig  `envPrefix:"NOTIFY_"`
	Events  EventsConfig  `envPrefix:"NATS_"`

	// Services is a comma-delimited list of service modes.
	Services string `env:"SERVICES" envDefault:"http"`

	Expiry ExpiryConfig `envPrefix:"EXPIRY_"`

	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.RateLimit.Sanitize()
	c.Booking.Sanitize()
	c.Notify.Sanitize()
	c.Events.Sanitize()
	c.Expiry.Sanitize()
	c.Observability.Sanitize()

	c.detectDevMode()
}

// detectDevMode falls back to NODE_ENV when DEV is unset.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsHTTPServerEnabled returns true if the HTTP server service is enabled.
func (c *AppConfig) IsHTTPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeHTTP]
}

// IsExpirerEnabled returns true if the pending job expiry loop is enabled.
func (c *AppConfig) IsExpirerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeExpirer]
}
