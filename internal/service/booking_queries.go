package service

import (
	"context"
	"fmt"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/booking"
	"github.com/dtapi/booking-api/internal/domain/model"
	apperrors "github.com/dtapi/booking-api/internal/errors"
	"github.com/dtapi/booking-api/internal/observability/metrics"
)

// User type labels returned with job listings.
const (
	UserTypeCustomer   = "customer"
	UserTypeTranslator = "translator"
)

// maxAdminPageSize caps per_page on the admin listing.
const maxAdminPageSize = 100

// ListUsersJobs returns the active jobs of userID split into immediate and
// scheduled lists. Callers other than administrators may only list their own.
func (s *BookingService) ListUsersJobs(ctx context.Context, caller *model.User, userID int64) (*model.UsersJobs, error) {
	target, asTranslator, label, err := s.listingTarget(ctx, caller, userID)
	if err != nil {
		return nil, err
	}
	if label == "" {
		return booking.SplitUsersJobs(nil, label), nil
	}
	jobs, err := s.jobs.GetUsersJobs(ctx, target.ID, asTranslator)
	if err != nil {
		return nil, repoError("get users jobs", err)
	}
	return booking.SplitUsersJobs(jobs, label), nil
}

// GetJobHistory pages through the finished jobs of userID, newest first.
// A zero userID means the caller.
func (s *BookingService) GetJobHistory(
	ctx context.Context,
	caller *model.User,
	userID int64,
	page int,
) (*model.JobHistory, error) {
	if userID == 0 && caller != nil {
		userID = caller.ID
	}
	target, asTranslator, label, err := s.listingTarget(ctx, caller, userID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if label == "" {
		return &model.JobHistory{JobPage: model.NewJobPage(nil, 0, page, s.cfg.HistoryPageSize)}, nil
	}

	p, err := s.jobs.GetUsersJobsHistory(ctx, core.HistoryQuery{
		UserID:       target.ID,
		AsTranslator: asTranslator,
		Page:         page,
		PerPage:      s.cfg.HistoryPageSize,
	})
	if err != nil {
		return nil, repoError("get job history", err)
	}
	return &model.JobHistory{JobPage: p, UserType: label}, nil
}

// listingTarget resolves the user whose jobs are listed and whether they are
// listed as a translator. label is empty for users who own no jobs.
func (s *BookingService) listingTarget(
	ctx context.Context,
	caller *model.User,
	userID int64,
) (target *model.User, asTranslator bool, label string, err error) {
	if caller == nil {
		return nil, false, "", apperrors.Forbidden("Authentication required")
	}
	if userID != caller.ID && !s.isAdmin(caller) {
		return nil, false, "", apperrors.Forbidden("You may only list your own bookings")
	}

	target = caller
	if userID != caller.ID {
		target, err = s.users.GetByID(ctx, userID)
		if err != nil {
			return nil, false, "", repoError("get user", err)
		}
	}

	switch {
	case s.roles.IsCustomer(target.UserType):
		return target, false, UserTypeCustomer, nil
	case s.roles.IsTranslator(target.UserType):
		return target, true, UserTypeTranslator, nil
	default:
		return target, false, "", nil
	}
}

// ListAllJobs returns one page of the admin job listing.
func (s *BookingService) ListAllJobs(ctx context.Context, caller *model.User, f model.JobListFilter) (*model.JobPage, error) {
	if !s.isAdmin(caller) {
		return nil, apperrors.Forbidden("Only administrators can list all bookings")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PerPage < 1:
		f.PerPage = s.cfg.AdminPageSize
	case f.PerPage > maxAdminPageSize:
		f.PerPage = maxAdminPageSize
	}
	p, err := s.jobs.GetAll(ctx, f)
	if err != nil {
		return nil, repoError("get all jobs", err)
	}
	return p, nil
}

// GetPotentialJobs lists the pending jobs the calling translator may accept.
func (s *BookingService) GetPotentialJobs(ctx context.Context, translator *model.User) ([]model.Job, error) {
	if translator == nil || !s.roles.IsTranslator(translator.UserType) {
		return nil, apperrors.Forbidden("Only translators have potential bookings")
	}
	jobType := booking.JobTypeForTranslator(translator.TranslatorType)
	jobs, err := s.jobs.GetPotentialJobs(ctx, translator.ID, jobType)
	if err != nil {
		return nil, repoError("get potential jobs", err)
	}
	return jobs, nil
}

// ResendNotifications pushes the job to every eligible translator again.
func (s *BookingService) ResendNotifications(ctx context.Context, jobID int64) (*model.Ack, error) {
	started := s.now()
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoError("get job", err)
	}
	data := booking.JobToData(job, s.loc)
	if err := s.notifier.NotifyTranslators(ctx, job, data, model.AudienceAll); err != nil {
		s.observe(metrics.TransitionNotified, job, false, err, started)
		return nil, fmt.Errorf("notify translators: %w", err)
	}
	s.observe(metrics.TransitionNotified, job, false, nil, started)
	return &model.Ack{Success: "Push sent"}, nil
}

// ResendSMSNotifications texts the job to every eligible translator again.
func (s *BookingService) ResendSMSNotifications(ctx context.Context, jobID int64) (*model.Ack, error) {
	started := s.now()
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, repoError("get job", err)
	}
	if err := s.notifier.SendSMSToTranslators(ctx, job); err != nil {
		s.observe(metrics.TransitionSMSNotified, job, false, err, started)
		return nil, fmt.Errorf("send sms to translators: %w", err)
	}
	s.observe(metrics.TransitionSMSNotified, job, false, nil, started)
	return &model.Ack{Success: "SMS sent"}, nil
}
