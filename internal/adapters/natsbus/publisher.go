// Package natsbus publishes booking lifecycle events to NATS JetStream.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
)

var _ core.EventPublisher = (*Publisher)(nil)

// streamPublisher is the part of jetstream.JetStream the publisher uses.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// Publisher writes each event to <prefix>.<event name>, deduplicated by event ID.
type Publisher struct {
	js      streamPublisher
	nc      *nats.Conn
	prefix  string
	timeout time.Duration
	logger  *slog.Logger
}

// Connect dials NATS, ensures the stream exists and returns a Publisher.
func Connect(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (*Publisher, error) {
	cfg.Sanitize()
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "natsbus")

	nc, err := nats.Connect(cfg.URL,
		nats.Name("booking-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(cfg.Timeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	sctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	if _, err := js.CreateOrUpdateStream(sctx, jetstream.StreamConfig{
		Name:     cfg.Stream,
		Subjects: []string{cfg.SubjectPrefix + ".>"},
		MaxAge:   7 * 24 * time.Hour,
	}); err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.Stream, err)
	}

	logger.Info("nats event publisher ready", "stream", cfg.Stream, "prefix", cfg.SubjectPrefix)
	p := newPublisher(js, cfg, logger)
	p.nc = nc
	return p, nil
}

func newPublisher(js streamPublisher, cfg config.EventsConfig, logger *slog.Logger) *Publisher {
	cfg.Sanitize()
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{js: js, prefix: cfg.SubjectPrefix, timeout: cfg.Timeout, logger: logger}
}

// Subject returns the subject an event is published on.
func (p *Publisher) Subject(evt model.BookingEvent) string {
	return p.prefix + "." + evt.Name
}

func (p *Publisher) Publish(ctx context.Context, evt model.BookingEvent) error {
	if evt.Name == "" {
		return errors.New("event name is required")
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	pctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var opts []jetstream.PublishOpt
	if evt.ID != "" {
		opts = append(opts, jetstream.WithMsgID(evt.ID))
	}
	subject := p.Subject(evt)
	ack, err := p.js.Publish(pctx, subject, data, opts...)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	p.logger.DebugContext(ctx, "event published",
		"subject", subject,
		"job_id", evt.JobID,
		"sequence", ack.Sequence,
		"duplicate", ack.Duplicate,
	)
	return nil
}

// Close drains the connection. Safe on a Publisher built without one.
func (p *Publisher) Close() error {
	if p.nc == nil || p.nc.IsClosed() {
		return nil
	}
	return p.nc.Drain()
}
