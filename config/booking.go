package config

import (
	"strings"
	"time"
)

// BookingConfig holds booking rule settings.
type BookingConfig struct {
	// Timezone is the IANA zone scheduled due dates are parsed in.
	Timezone string `env:"TIMEZONE" envDefault:"UTC"`

	// HistoryPageSize is the page size for the job history listing.
	HistoryPageSize int `env:"HISTORY_PAGE_SIZE" envDefault:"15"`

	// CacheTTL is how long a shown job stays cached. Zero disables the cache.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"2m"`

	// AdminPageSize is the default per_page for the admin job listing.
	AdminPageSize int `env:"ADMIN_PAGE_SIZE" envDefault:"15"`
}

// Location resolves Timezone, falling back to UTC for unknown names.
func (b *BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Sanitize normalises booking settings.
func (b *BookingConfig) Sanitize() {
	b.Timezone = strings.TrimSpace(b.Timezone)
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}
	if b.HistoryPageSize < 1 {
		b.HistoryPageSize = 15
	}
	if b.AdminPageSize < 1 {
		b.AdminPageSize = 15
	}
	if b.CacheTTL < 0 {
		b.CacheTTL = 0
	}
}

// NotifyConfig controls the translator push and SMS gateways.
type NotifyConfig struct {
	Timeout    time.Duration `env:"TIMEOUT"     envDefault:"5s"`
	RetryLimit int           `env:"RETRY_LIMIT" envDefault:"3"`

	Push PushGatewayConfig `envPrefix:"PUSH_"`
	SMS  SMSGatewayConfig  `envPrefix:"SMS_"`
}

// Sanitize normalises notification configuration values.
func (c *NotifyConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
	if c.RetryLimit < 0 {
		c.RetryLimit = 0
	}
	c.Push.sanitize()
	c.SMS.sanitize()
}

// PushGatewayConfig configures the push notification gateway.
type PushGatewayConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	URL     string `env:"URL"`
	APIKey  string `env:"API_KEY"`
	// PayloadExpr is an optional JMESPath expression applied to the
	// notification document before it is posted.
	PayloadExpr string `env:"PAYLOAD_EXPR"`
}

func (c *PushGatewayConfig) sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	c.PayloadExpr = strings.TrimSpace(c.PayloadExpr)
	if c.URL == "" {
		c.Enabled = false
	}
}

// SMSGatewayConfig configures the SMS gateway.
type SMSGatewayConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	URL     string `env:"URL"`
	APIKey  string `env:"API_KEY"`
	Sender  string `env:"SENDER"  envDefault:"DigitalTolk"`
}

func (c *SMSGatewayConfig) sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	if c.Sender = strings.TrimSpace(c.Sender); c.Sender == "" {
		c.Sender = "DigitalTolk"
	}
	if c.URL == "" {
		c.Enabled = false
	}
}

// EventsConfig configures the NATS JetStream booking event publisher.
type EventsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	URL     string `env:"URL"     envDefault:"nats://localhost:4222"`
	Stream  string `env:"STREAM"  envDefault:"BOOKINGS"`
	// SubjectPrefix is prepended to event names, e.g. bookings.job.created.
	SubjectPrefix string        `env:"SUBJECT_PREFIX" envDefault:"bookings"`
	Timeout       time.Duration `env:"TIMEOUT"        envDefault:"5s"`
}

// Sanitize normalises event settings.
func (c *EventsConfig) Sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Stream = strings.TrimSpace(c.Stream)
	c.SubjectPrefix = strings.Trim(strings.TrimSpace(c.SubjectPrefix), ".")
	if c.URL == "" || c.Stream == "" {
		c.Enabled = false
	}
	if c.SubjectPrefix == "" {
		c.SubjectPrefix = "bookings"
	}
	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}
}
