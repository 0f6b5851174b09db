package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
	apperrors "github.com/dtapi/booking-api/internal/errors"
)

func TestBookingService_ListUsersJobs(t *testing.T) {
	t.Parallel()

	t.Run("customer sees own jobs split", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()

		f.jobs.EXPECT().GetUsersJobs(ctx, int64(10), false).Return([]model.Job{
			{ID: 1, Immediate: true},
			{ID: 2},
			{ID: 3},
		}, nil)

		got, err := f.svc.ListUsersJobs(ctx, customerUser(), 10)
		require.NoError(t, err)
		assert.Equal(t, UserTypeCustomer, got.UserType)
		assert.Len(t, got.Emergency, 1)
		assert.Len(t, got.Normal, 2)
	})

	t.Run("admin lists a translator", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()

		f.users.EXPECT().GetByID(ctx, int64(5)).Return(translatorUser(5), nil)
		f.jobs.EXPECT().GetUsersJobs(ctx, int64(5), true).Return(nil, nil)

		got, err := f.svc.ListUsersJobs(ctx, adminUser(), 5)
		require.NoError(t, err)
		assert.Equal(t, UserTypeTranslator, got.UserType)
		assert.Empty(t, got.Emergency)
		assert.Empty(t, got.Normal)
	})

	t.Run("other users are forbidden", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)

		_, err := f.svc.ListUsersJobs(context.Background(), customerUser(), 5)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()

		f.users.EXPECT().GetByID(ctx, int64(5)).Return(nil, core.ErrUserNotFound)

		_, err := f.svc.ListUsersJobs(ctx, adminUser(), 5)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestBookingService_GetJobHistory(t *testing.T) {
	t.Parallel()

	t.Run("defaults to caller and first page", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()
		page := model.NewJobPage([]model.Job{{ID: 1}}, 1, 1, 15)

		f.jobs.EXPECT().GetUsersJobsHistory(ctx, core.HistoryQuery{
			UserID:       5,
			AsTranslator: true,
			Page:         1,
			PerPage:      15,
		}).Return(page, nil)

		got, err := f.svc.GetJobHistory(ctx, translatorUser(5), 0, 0)
		require.NoError(t, err)
		assert.Equal(t, UserTypeTranslator, got.UserType)
		assert.Equal(t, page, got.JobPage)
	})

	t.Run("user without a role gets an empty page", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)

		got, err := f.svc.GetJobHistory(context.Background(), adminUser(), 0, 3)
		require.NoError(t, err)
		assert.Empty(t, got.Data)
		assert.Equal(t, 3, got.Page)
		assert.Empty(t, got.UserType)
	})
}

func TestBookingService_ListAllJobs(t *testing.T) {
	t.Parallel()

	t.Run("non-admin is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)

		_, err := f.svc.ListAllJobs(context.Background(), customerUser(), model.JobListFilter{})
		assert.True(t, apperrors.IsForbidden(err))
	})

	tests := map[string]struct {
		in          model.JobListFilter
		wantPage    int
		wantPerPage int
	}{
		"defaults":    {in: model.JobListFilter{}, wantPage: 1, wantPerPage: 15},
		"capped":      {in: model.JobListFilter{Page: 2, PerPage: 500}, wantPage: 2, wantPerPage: 100},
		"passthrough": {in: model.JobListFilter{Page: 3, PerPage: 40}, wantPage: 3, wantPerPage: 40},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f := newBookingFixture(t)
			ctx := context.Background()

			f.jobs.EXPECT().GetAll(ctx, gomock.Any()).DoAndReturn(
				func(_ context.Context, got model.JobListFilter) (*model.JobPage, error) {
					assert.Equal(t, tc.wantPage, got.Page)
					assert.Equal(t, tc.wantPerPage, got.PerPage)
					return model.NewJobPage(nil, 0, got.Page, got.PerPage), nil
				})

			_, err := f.svc.ListAllJobs(ctx, adminUser(), tc.in)
			require.NoError(t, err)
		})
	}
}

func TestBookingService_GetPotentialJobs(t *testing.T) {
	t.Parallel()

	t.Run("translator", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()

		f.jobs.EXPECT().GetPotentialJobs(ctx, int64(5), model.JobTypePaid).Return([]model.Job{{ID: 1}}, nil)

		jobs, err := f.svc.GetPotentialJobs(ctx, translatorUser(5))
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)

		_, err := f.svc.GetPotentialJobs(context.Background(), customerUser())
		assert.True(t, apperrors.IsForbidden(err))
	})
}

func TestBookingService_Resend(t *testing.T) {
	t.Parallel()

	t.Run("push", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()
		job := pendingJob(60)

		f.jobs.EXPECT().GetByID(ctx, int64(60)).Return(job, nil)
		f.notifier.EXPECT().NotifyTranslators(ctx, job, gomock.Any(), model.AudienceAll).Return(nil)

		ack, err := f.svc.ResendNotifications(ctx, 60)
		require.NoError(t, err)
		assert.Equal(t, "Push sent", ack.Success)
	})

	t.Run("sms", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()
		job := pendingJob(60)

		f.jobs.EXPECT().GetByID(ctx, int64(60)).Return(job, nil)
		f.notifier.EXPECT().SendSMSToTranslators(ctx, job).Return(nil)

		ack, err := f.svc.ResendSMSNotifications(ctx, 60)
		require.NoError(t, err)
		assert.Equal(t, "SMS sent", ack.Success)
	})

	t.Run("gateway failure", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()
		job := pendingJob(60)
		gatewayErr := errors.New("sms gateway down")

		f.jobs.EXPECT().GetByID(ctx, int64(60)).Return(job, nil)
		f.notifier.EXPECT().SendSMSToTranslators(ctx, job).Return(gatewayErr)

		_, err := f.svc.ResendSMSNotifications(ctx, 60)
		require.ErrorIs(t, err, gatewayErr)
	})

	t.Run("unknown job", func(t *testing.T) {
		t.Parallel()
		f := newBookingFixture(t)
		ctx := context.Background()

		f.jobs.EXPECT().GetByID(ctx, int64(60)).Return(nil, core.ErrJobNotFound)

		_, err := f.svc.ResendNotifications(ctx, 60)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
