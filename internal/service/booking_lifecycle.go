package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/booking"
	"github.com/dtapi/booking-api/internal/domain/model"
	apperrors "github.com/dtapi/booking-api/internal/errors"
	"github.com/dtapi/booking-api/internal/observability/metrics"
)

// AcceptJob assigns a pending job to the calling translator.
func (s *BookingService) AcceptJob(ctx context.Context, translator *model.User, jobID int64) (*model.BookingResult, error) {
	return s.accept(ctx, translator, jobID, func() (any, *model.Job, error) {
		job, err := s.jobs.AcceptJob(ctx, jobID, translator.ID)
		return job, job, err
	})
}

// AcceptJobWithID is AcceptJob returning the job with its new translator relation.
func (s *BookingService) AcceptJobWithID(
	ctx context.Context,
	translator *model.User,
	jobID int64,
) (*model.BookingResult, error) {
	return s.accept(ctx, translator, jobID, func() (any, *model.Job, error) {
		job, err := s.jobs.AcceptJobWithID(ctx, jobID, translator.ID)
		if err != nil {
			return nil, nil, err
		}
		return job, &job.Job, nil
	})
}

func (s *BookingService) accept(
	ctx context.Context,
	translator *model.User,
	jobID int64,
	run func() (any, *model.Job, error),
) (*model.BookingResult, error) {
	started := s.now()
	if translator == nil || !s.roles.IsTranslator(translator.UserType) {
		return nil, apperrors.Forbidden("Only translators can accept bookings")
	}
	if jobID <= 0 {
		return model.Fail(booking.MsgFillAllFields, "job_id"), nil
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoError("get job", err)
	}
	if job.JobType != model.JobTypeUnknown && job.JobType != booking.JobTypeForTranslator(translator.TranslatorType) {
		s.observe(metrics.TransitionAccepted, job, true, nil, started)
		return model.Fail(booking.MsgNotEligible), nil
	}

	out, accepted, err := run()
	switch {
	case errors.Is(err, core.ErrJobAlreadyAccepted):
		s.observe(metrics.TransitionAccepted, job, true, nil, started)
		return model.Fail(booking.MsgAlreadyAccepted), nil
	case errors.Is(err, core.ErrTranslatorBooked):
		s.observe(metrics.TransitionAccepted, job, true, nil, started)
		return model.Fail(booking.MsgTranslatorBooked), nil
	case err != nil:
		s.observe(metrics.TransitionAccepted, job, false, err, started)
		return nil, repoError("accept job", err)
	}

	s.invalidate(ctx, jobID)
	s.publish(ctx, model.EventJobAccepted, accepted, translator.ID)
	s.observe(metrics.TransitionAccepted, accepted, false, nil, started)
	return model.Succeeded(booking.MsgAccepted, out), nil
}

// CancelJob withdraws a booking on behalf of its customer, or releases it
// back to other translators on behalf of the assigned translator.
func (s *BookingService) CancelJob(ctx context.Context, user *model.User, jobID int64) (*model.BookingResult, error) {
	started := s.now()
	if user == nil {
		return nil, apperrors.Forbidden("Authentication required")
	}
	job, err := s.jobs.GetWithTranslator(ctx, jobID)
	if err != nil {
		return nil, repoError("get job", err)
	}

	byCustomer := s.ownsOrAdmin(user, &job.Job)
	if !byCustomer && !assignedTo(job, user) {
		if s.roles.IsTranslator(user.UserType) {
			return model.Fail(booking.MsgNotYourJob), nil
		}
		return nil, apperrors.Forbidden("You may only cancel your own bookings")
	}

	params, fail := booking.PlanCancellation(&job.Job, byCustomer, started)
	if fail != nil {
		s.observe(metrics.TransitionCancelled, &job.Job, true, nil, started)
		return fail, nil
	}

	cancelled, err := s.jobs.CancelJob(ctx, params)
	switch {
	case errors.Is(err, core.ErrJobNotCancellable):
		s.observe(metrics.TransitionCancelled, &job.Job, true, nil, started)
		return model.Fail(booking.MsgNotCancellable), nil
	case err != nil:
		s.observe(metrics.TransitionCancelled, &job.Job, false, err, started)
		return nil, repoError("cancel job", err)
	}

	s.invalidate(ctx, jobID)
	s.publish(ctx, model.EventJobCancelled, cancelled, user.ID)
	s.observe(metrics.TransitionCancelled, cancelled, false, nil, started)

	if !byCustomer {
		// The job is open again.
		s.notifyQuietly(ctx, cancelled, model.AudienceAll, model.NotificationJobAvailable)
		return model.Succeeded(booking.MsgReleased, cancelled), nil
	}
	if job.Translator != nil {
		s.notifyQuietly(ctx, cancelled, audienceOf(job.Translator.UserID), model.NotificationJobCancelled)
	}
	return model.Succeeded(booking.MsgCancelledCustomer, cancelled), nil
}

// EndJob completes an assigned or started job and records its session time.
func (s *BookingService) EndJob(ctx context.Context, user *model.User, jobID int64) (*model.BookingResult, error) {
	started := s.now()
	job, err := s.participantJob(ctx, user, jobID)
	if err != nil {
		return nil, err
	}
	if !booking.CanEnd(job.Status) {
		s.observe(metrics.TransitionEnded, &job.Job, true, nil, started)
		return model.Fail(booking.MsgCannotEnd), nil
	}

	ended, err := s.jobs.EndJob(ctx, core.EndJobParams{
		JobID:       jobID,
		At:          started,
		SessionTime: booking.SessionTime(job.Due, started),
	})
	switch {
	case errors.Is(err, core.ErrInvalidTransition):
		s.observe(metrics.TransitionEnded, &job.Job, true, nil, started)
		return model.Fail(booking.MsgCannotEnd), nil
	case err != nil:
		s.observe(metrics.TransitionEnded, &job.Job, false, err, started)
		return nil, repoError("end job", err)
	}

	s.invalidate(ctx, jobID)
	s.publish(ctx, model.EventJobEnded, ended, user.ID)
	s.observe(metrics.TransitionEnded, ended, false, nil, started)
	return model.Succeeded(booking.MsgEnded, ended), nil
}

// CustomerNotCall records that the customer never showed up.
func (s *BookingService) CustomerNotCall(ctx context.Context, user *model.User, jobID int64) (*model.BookingResult, error) {
	started := s.now()
	job, err := s.participantJob(ctx, user, jobID)
	if err != nil {
		return nil, err
	}
	if !booking.CanEnd(job.Status) {
		s.observe(metrics.TransitionNoShow, &job.Job, true, nil, started)
		return model.Fail(booking.MsgCannotEnd), nil
	}

	updated, err := s.jobs.CustomerNotCall(ctx, jobID, started)
	switch {
	case errors.Is(err, core.ErrInvalidTransition):
		s.observe(metrics.TransitionNoShow, &job.Job, true, nil, started)
		return model.Fail(booking.MsgCannotEnd), nil
	case err != nil:
		s.observe(metrics.TransitionNoShow, &job.Job, false, err, started)
		return nil, repoError("customer not call", err)
	}

	s.invalidate(ctx, jobID)
	s.publish(ctx, model.EventJobNoShow, updated, user.ID)
	s.observe(metrics.TransitionNoShow, updated, false, nil, started)
	return model.Succeeded(booking.MsgCustomerNoShow, updated), nil
}

// Reopen puts a withdrawn, timed out or no-show job back to pending and
// notifies translators that it is available again.
func (s *BookingService) Reopen(ctx context.Context, user *model.User, req model.ReopenRequest) (*model.BookingResult, error) {
	started := s.now()
	jobID := req.ID()
	if jobID <= 0 {
		return model.Fail(booking.MsgFillAllFields, "jobid"), nil
	}
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoError("get job", err)
	}
	if !s.ownsOrAdmin(user, job) {
		return nil, apperrors.Forbidden("You may only reopen your own bookings")
	}

	params, fail := booking.PlanReopen(job, started)
	if fail != nil {
		s.observe(metrics.TransitionReopened, job, true, nil, started)
		return fail, nil
	}

	reopened, err := s.jobs.Reopen(ctx, params)
	switch {
	case errors.Is(err, core.ErrInvalidTransition):
		s.observe(metrics.TransitionReopened, job, true, nil, started)
		return model.Fail(booking.MsgCannotReopen), nil
	case err != nil:
		s.observe(metrics.TransitionReopened, job, false, err, started)
		return nil, repoError("reopen job", err)
	}

	s.invalidate(ctx, jobID)
	s.publish(ctx, model.EventJobReopened, reopened, user.ID)
	s.observe(metrics.TransitionReopened, reopened, false, nil, started)
	s.notifyQuietly(ctx, reopened, model.AudienceAll, model.NotificationJobAvailable)
	return model.Succeeded(booking.MsgReopened, reopened), nil
}

// participantJob loads a job the caller may finish: an administrator, the
// owning customer, or the assigned translator.
func (s *BookingService) participantJob(ctx context.Context, user *model.User, jobID int64) (*model.JobWithTranslator, error) {
	if user == nil {
		return nil, apperrors.Forbidden("Authentication required")
	}
	job, err := s.jobs.GetWithTranslator(ctx, jobID)
	if err != nil {
		return nil, repoError("get job", err)
	}
	if !s.ownsOrAdmin(user, &job.Job) && !assignedTo(job, user) {
		return nil, apperrors.Forbidden("This booking is not assigned to you")
	}
	return job, nil
}

func assignedTo(job *model.JobWithTranslator, user *model.User) bool {
	return job.Translator != nil && job.Translator.UserID == user.ID
}

// audienceOf selects a single translator by id.
func audienceOf(translatorID int64) string {
	return fmt.Sprintf("[?id == `%d`]", translatorID)
}

// notifyQuietly pushes job to translators after a committed transition.
// Failures are logged and do not fail the request.
func (s *BookingService) notifyQuietly(ctx context.Context, job *model.Job, audience string, kind model.NotificationKind) {
	data := booking.JobToData(job, s.loc)
	data.Kind = kind
	if err := s.notifier.NotifyTranslators(ctx, job, data, audience); err != nil {
		s.logger.WarnContext(ctx, "translator notification failed",
			"job_id", job.ID,
			"audience", audience,
			"error", err,
		)
	}
}
