// Package expiry provides the adapter that runs the pending booking expiry loop.
package expiry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data"
	"github.com/dtapi/booking-api/internal/observability/statsd"
	"github.com/dtapi/booking-api/internal/service"
)

// Runner wires the expiry service against Postgres and runs its loop.
type Runner struct {
	expiry *service.ExpiryService
	logger *slog.Logger
}

// RunnerOptions holds the dependencies for creating a Runner.
type RunnerOptions struct {
	DB     *sql.DB
	Config config.ExpiryConfig
	Logger *slog.Logger

	// Optional dependency injection for testing/decoupling
	Jobs    core.JobRepository
	Cache   core.JobCache
	Events  core.EventPublisher
	Metrics statsd.Sink
}

// NewRunner creates a new expiry runner with the given options.
func NewRunner(opts RunnerOptions) (*Runner, error) {
	if opts.DB == nil && opts.Jobs == nil {
		return nil, errors.New("database connection is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	jobs := opts.Jobs
	if jobs == nil {
		jobs = data.NewJobRepo(opts.DB, data.RepoConfig{Logger: opts.Logger})
	}

	svc, err := service.NewExpiryService(service.ExpiryServiceOptions{
		Jobs:    jobs,
		Config:  opts.Config,
		Cache:   opts.Cache,
		Events:  opts.Events,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("wire expiry service: %w", err)
	}

	return &Runner{expiry: svc, logger: opts.Logger}, nil
}

// Run starts the expiry loop and runs until the context is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.InfoContext(ctx, "starting expiry runner")
	return r.expiry.Run(ctx)
}

// SweepOnce expires due jobs once and returns how many were timed out.
func (r *Runner) SweepOnce(ctx context.Context) (int, error) {
	return r.expiry.Sweep(ctx)
}
