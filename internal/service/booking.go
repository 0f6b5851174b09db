package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/booking"
	"github.com/dtapi/booking-api/internal/domain/model"
	apperrors "github.com/dtapi/booking-api/internal/errors"
	"github.com/dtapi/booking-api/internal/observability/metrics"
	"github.com/dtapi/booking-api/internal/observability/statsd"
)

// BookingServiceOptions groups dependencies for BookingService.
type BookingServiceOptions struct {
	Jobs     core.JobRepository      // Required: booking persistence
	Users    core.UserRepository     // Required: account lookups
	Notifier core.TranslatorNotifier // Required: translator push and SMS
	Cache    core.JobCache           // Optional: cache for shown jobs
	Events   core.EventPublisher     // Optional: lifecycle event bus
	Metrics  statsd.Sink             // Optional: metrics sink (StatsD-compatible)
	Roles    config.RolesConfig      // Required: role identifiers
	Booking  config.BookingConfig    // Required: time zone and page sizes
	Logger   *slog.Logger            // Optional: structured logger
	Now      func() time.Time        // Optional: clock override
}

// BookingService orchestrates the booking lifecycle. Business-rule refusals
// come back as fail results with a nil error; storage and gateway faults come
// back as errors.
type BookingService struct {
	jobs     core.JobRepository
	users    core.UserRepository
	notifier core.TranslatorNotifier
	cache    core.JobCache
	events   core.EventPublisher
	metrics  statsd.Sink
	roles    config.RolesConfig
	cfg      config.BookingConfig
	loc      *time.Location
	logger   *slog.Logger
	now      func() time.Time
}

// NewBookingService constructs a new BookingService.
func NewBookingService(opts BookingServiceOptions) (*BookingService, error) {
	if opts.Jobs == nil {
		return nil, errors.New("JobRepository is required")
	}
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	if opts.Notifier == nil {
		return nil, errors.New("TranslatorNotifier is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Noop{}
	}
	cfg := opts.Booking
	cfg.Sanitize()

	return &BookingService{
		jobs:     opts.Jobs,
		users:    opts.Users,
		notifier: opts.Notifier,
		cache:    opts.Cache,
		events:   opts.Events,
		metrics:  sink,
		roles:    opts.Roles,
		cfg:      cfg,
		loc:      cfg.Location(),
		logger:   logger.With("component", "booking_service"),
		now:      now,
	}, nil
}

// MustNewBookingService constructs a new BookingService and panics on error.
// Use this when you're certain the options are valid (e.g., in main.go).
func MustNewBookingService(opts BookingServiceOptions) *BookingService {
	svc, err := NewBookingService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create BookingService: %v", err))
	}
	return svc
}

// StoreJob creates a booking for customer.
func (s *BookingService) StoreJob(
	ctx context.Context,
	customer *model.User,
	req model.StoreJobRequest,
) (*model.BookingResult, error) {
	started := s.now()
	if customer == nil || !s.roles.IsCustomer(customer.UserType) {
		s.observe(metrics.TransitionCreated, nil, true, nil, started)
		return model.Fail(booking.MsgTranslatorCannotCreate), nil
	}

	nj, kind, fail := booking.PrepareNewJob(customer, req, started, s.loc)
	if fail != nil {
		s.observe(metrics.TransitionCreated, nil, true, nil, started)
		return fail, nil
	}

	job, err := s.jobs.Store(ctx, nj)
	if err != nil {
		s.observe(metrics.TransitionCreated, nil, false, err, started)
		return nil, repoError("store job", err)
	}

	s.logger.InfoContext(ctx, "booking created",
		"job_id", job.ID,
		"user_id", customer.ID,
		"type", kind,
		"job_type", job.JobType,
	)
	s.publish(ctx, model.EventJobCreated, job, customer.ID)
	s.observe(metrics.TransitionCreated, job, false, nil, started)

	return &model.BookingResult{Status: model.ResultSuccess, ID: job.ID, Type: kind}, nil
}

// DistanceFeed records distance feedback and admin bookkeeping for a job.
// Administrators may write every field. The assigned translator may only
// report distance and travel time.
func (s *BookingService) DistanceFeed(
	ctx context.Context,
	user *model.User,
	req model.DistanceFeedRequest,
) (model.DistanceFeedOutcome, error) {
	started := s.now()
	if user == nil {
		return "", apperrors.Forbidden("Authentication required")
	}
	jobID := req.JobID.Int64()
	if jobID <= 0 {
		return "", apperrors.ValidationField("jobid", "jobid is required")
	}
	if !s.isAdmin(user) {
		if booking.RequestsAdminFields(req) {
			return "", apperrors.Forbidden("Only administrators may change admin fields")
		}
		job, err := s.jobs.GetWithTranslator(ctx, jobID)
		if err != nil {
			return "", repoError("get job", err)
		}
		if !assignedTo(job, user) {
			return "", apperrors.Forbidden("This booking is not assigned to you")
		}
	}

	plan := booking.PlanDistanceFeed(req)
	if plan.Outcome == model.DistanceFeedNeedsComment {
		s.observe(metrics.TransitionDistance, nil, true, nil, started)
		return plan.Outcome, nil
	}

	if plan.Distance != nil {
		if _, err := s.jobs.UpdateDistance(ctx, jobID, *plan.Distance); err != nil {
			s.observe(metrics.TransitionDistance, nil, false, err, started)
			return "", repoError("update distance", err)
		}
	}
	if plan.Admin != nil {
		if err := s.jobs.UpdateAdminFields(ctx, jobID, *plan.Admin); err != nil {
			s.observe(metrics.TransitionDistance, nil, false, err, started)
			return "", repoError("update admin fields", err)
		}
	}
	if plan.Distance != nil || plan.Admin != nil {
		s.invalidate(ctx, jobID)
	}
	s.observe(metrics.TransitionDistance, nil, false, nil, started)
	return plan.Outcome, nil
}

// ShowJob returns the job with its distance and translator relations.
func (s *BookingService) ShowJob(ctx context.Context, id int64) (*model.JobWithTranslator, error) {
	if s.cache != nil {
		cached, err := s.cache.GetJob(ctx, id)
		if err != nil {
			s.logger.WarnContext(ctx, "job cache read failed", "job_id", id, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	job, err := s.jobs.GetWithTranslator(ctx, id)
	if err != nil {
		return nil, repoError("get job", err)
	}
	if s.cache != nil {
		if err := s.cache.SetJob(ctx, job); err != nil {
			s.logger.WarnContext(ctx, "job cache write failed", "job_id", id, "error", err)
		}
	}
	return job, nil
}

// UpdateJob applies a partial update. Only administrators and the owning
// customer may update a job.
func (s *BookingService) UpdateJob(
	ctx context.Context,
	user *model.User,
	id int64,
	req model.UpdateJobRequest,
) (*model.BookingResult, error) {
	started := s.now()
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, repoError("get job", err)
	}
	if !s.ownsOrAdmin(user, job) {
		return nil, apperrors.Forbidden("You may only update your own bookings")
	}

	update, fail := booking.PlanJobUpdate(job, req, started, s.loc)
	if fail != nil {
		s.observe(metrics.TransitionUpdated, job, true, nil, started)
		return fail, nil
	}

	updated, err := s.jobs.UpdateJob(ctx, id, update)
	if err != nil {
		s.observe(metrics.TransitionUpdated, job, false, err, started)
		return nil, repoError("update job", err)
	}
	s.invalidate(ctx, id)
	s.publish(ctx, model.EventJobUpdated, updated, user.ID)
	s.observe(metrics.TransitionUpdated, updated, false, nil, started)
	return model.Succeeded(booking.MsgUpdated, updated), nil
}

// StoreImmediateJobEmail records the contact details of an immediate job and
// notifies every eligible translator.
func (s *BookingService) StoreImmediateJobEmail(
	ctx context.Context,
	req model.ImmediateJobEmailRequest,
) (*model.BookingResult, error) {
	started := s.now()
	jobID := req.ID()
	if jobID <= 0 {
		return model.Fail(booking.MsgFillAllFields, "job_id"), nil
	}
	addr, err := booking.ValidateJobEmail(req.UserEmail)
	if err != nil {
		return model.Fail(booking.MsgInvalidEmail, "user_email"), nil
	}

	job, err := s.jobs.StoreJobEmail(ctx, model.JobEmailUpdate{
		JobID:        jobID,
		UserEmail:    addr,
		Reference:    req.Reference,
		Address:      req.Address,
		Instructions: req.Instructions,
		Town:         req.Town,
	})
	if err != nil {
		return nil, repoError("store job email", err)
	}
	s.invalidate(ctx, jobID)

	data := booking.JobToData(job, s.loc)
	if err := s.notifier.NotifyTranslators(ctx, job, data, model.AudienceAll); err != nil {
		s.observe(metrics.TransitionNotified, job, false, err, started)
		return nil, fmt.Errorf("notify translators: %w", err)
	}
	s.observe(metrics.TransitionNotified, job, false, nil, started)
	return model.Succeeded(booking.MsgEmailStored, job), nil
}

// repoError wraps a repository failure, translating sentinels and Postgres
// errors into application errors.
func repoError(op string, err error) error {
	switch {
	case errors.Is(err, core.ErrJobNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "Job not found")
	case errors.Is(err, core.ErrUserNotFound):
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "User not found")
	}
	if mapped := apperrors.MapDBError(err); apperrors.GetCode(mapped) != "" {
		return fmt.Errorf("%s: %w", op, mapped)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *BookingService) isAdmin(u *model.User) bool {
	return u != nil && s.roles.IsAdmin(u.UserType)
}

func (s *BookingService) ownsOrAdmin(u *model.User, job *model.Job) bool {
	return u != nil && (s.roles.IsAdmin(u.UserType) || job.UserID == u.ID)
}

func (s *BookingService) invalidate(ctx context.Context, jobID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateJob(ctx, jobID); err != nil {
		s.logger.WarnContext(ctx, "job cache invalidation failed", "job_id", jobID, "error", err)
	}
}

// publish emits a lifecycle event. Delivery failures are logged; the state
// change has already been committed.
func (s *BookingService) publish(ctx context.Context, name string, job *model.Job, actorID int64) {
	if s.events == nil || job == nil {
		return
	}
	evt := model.BookingEvent{
		ID:         uuid.NewString(),
		Name:       name,
		JobID:      job.ID,
		Status:     job.Status,
		JobType:    job.JobType,
		ActorID:    actorID,
		OccurredAt: s.now(),
	}
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.WarnContext(ctx, "publish booking event failed", "event", name, "job_id", job.ID, "error", err)
	}
}

func (s *BookingService) observe(transition string, job *model.Job, rejected bool, err error, started time.Time) {
	m := metrics.Booking{
		Transition: transition,
		Result:     metrics.ResultFor(rejected, err),
		Duration:   s.now().Sub(started),
		Err:        err,
	}
	if job != nil {
		m.JobType = string(job.JobType)
		immediate := job.Immediate
		m.Immediate = &immediate
	}
	metrics.EmitBooking(s.metrics, m)
}
