package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/observability/metrics"
	"github.com/dtapi/booking-api/internal/observability/statsd"
)

// ExpiryServiceOptions groups dependencies for ExpiryService.
type ExpiryServiceOptions struct {
	Jobs    core.JobRepository  // Required: booking persistence
	Config  config.ExpiryConfig // Required: sweep interval and batch size
	Cache   core.JobCache       // Optional: invalidated for every expired job
	Events  core.EventPublisher // Optional: receives job.timedout events
	Logger  *slog.Logger        // Optional: structured logger
	Metrics statsd.Sink         // Optional: metrics sink (StatsD-compatible)
	Now     func() time.Time    // Optional: clock override
}

// ExpiryService times out pending bookings nobody accepted before their
// will_expire_at moment.
type ExpiryService struct {
	jobs    core.JobRepository
	config  config.ExpiryConfig
	cache   core.JobCache
	events  core.EventPublisher
	logger  *slog.Logger
	metrics statsd.Sink
	now     func() time.Time
}

// NewExpiryService constructs a new ExpiryService.
func NewExpiryService(opts ExpiryServiceOptions) (*ExpiryService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	cfg := opts.Config
	cfg.Sanitize()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "expiry_service")
	logger.Debug("ExpiryService initialized", "interval", cfg.Interval, "batch_size", cfg.BatchSize)

	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}

	return &ExpiryService{
		jobs:    opts.Jobs,
		config:  cfg,
		cache:   opts.Cache,
		events:  opts.Events,
		logger:  logger,
		metrics: sink,
		now:     now,
	}, nil
}

// Run sweeps at the configured interval until ctx is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ExpiryService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting expiry service", "interval", s.config.Interval)

	// Spread sweeps of replicas started together.
	s.waitWithJitter(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if _, err := s.Sweep(ctx); err != nil {
		s.logSweepError(ctx, err, "initial sweep")
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "expiry service stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.logSweepError(ctx, err, "sweep")
			}
		}
	}
}

// Sweep times out expired pending jobs in batches until a batch comes back
// short, and returns how many were expired.
func (s *ExpiryService) Sweep(ctx context.Context) (int, error) {
	started := s.now()
	total := 0
	for {
		expired, err := s.jobs.ExpirePending(ctx, s.now(), s.config.BatchSize)
		if err != nil {
			s.emitSweep(total, err, started)
			return total, fmt.Errorf("expire pending jobs: %w", err)
		}
		for i := range expired {
			s.afterExpiry(ctx, &expired[i])
		}
		total += len(expired)
		if len(expired) < s.config.BatchSize {
			break
		}
		if ctx.Err() != nil {
			s.emitSweep(total, ctx.Err(), started)
			return total, ctx.Err()
		}
	}

	if total > 0 {
		s.logger.InfoContext(ctx, "timed out pending bookings", "count", total)
	}
	s.emitSweep(total, nil, started)
	return total, nil
}

func (s *ExpiryService) afterExpiry(ctx context.Context, job *model.Job) {
	if s.cache != nil {
		if err := s.cache.InvalidateJob(ctx, job.ID); err != nil {
			s.logger.WarnContext(ctx, "job cache invalidation failed", "job_id", job.ID, "error", err)
		}
	}
	immediate := job.Immediate
	metrics.EmitBooking(s.metrics, metrics.Booking{
		Transition: metrics.TransitionTimedOut,
		JobType:    string(job.JobType),
		Result:     metrics.ResultSuccess,
		Immediate:  &immediate,
	})
	if s.events == nil {
		return
	}
	evt := model.BookingEvent{
		ID:         uuid.NewString(),
		Name:       model.EventJobTimedOut,
		JobID:      job.ID,
		Status:     job.Status,
		JobType:    job.JobType,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish booking event failed", "event", evt.Name, "job_id", job.ID, "error", err)
	}
}

func (s *ExpiryService) emitSweep(count int, err error, started time.Time) {
	result := metrics.ResultSuccess
	if err != nil && !isContextCancellation(err) {
		result = metrics.ResultError
	}
	tags := map[string]string{"result": result}
	s.metrics.Count("expiry.sweep", 1, tags)
	if count > 0 {
		s.metrics.Count("expiry.jobs_timed_out", int64(count), nil)
	}
	if elapsed := s.now().Sub(started); elapsed > 0 {
		s.metrics.Timing("expiry.sweep_duration", elapsed, map[string]string{"result": result})
	}
	if err == nil {
		s.metrics.Gauge("expiry.last_success_epoch", float64(s.now().Unix()), nil)
	}
}

// waitWithJitter sleeps a random delay of up to a tenth of the interval.
func (s *ExpiryService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitter := time.Duration(int64(binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter))) // #nosec G115 - bounded by maxJitter

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func (s *ExpiryService) logSweepError(ctx context.Context, err error, label string) {
	if isContextCancellation(err) {
		s.logger.DebugContext(ctx, label+" cancelled by context", "error", err)
		return
	}
	s.logger.ErrorContext(ctx, label+" failed", "error", err)
}

func isContextCancellation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
