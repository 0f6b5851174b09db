package core_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/mocks"
)

func newJobCache(t *testing.T) (*core.JobCacheService, *mocks.MockCacheRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCacheRepository(ctrl)
	return core.NewJobCacheService(core.JobCacheServiceOptions{Cache: repo, TTL: 2 * time.Minute}), repo
}

func TestJobCacheService_SetAndGet(t *testing.T) {
	svc, repo := newJobCache(t)
	ctx := context.Background()
	job := &model.JobWithTranslator{Job: model.Job{ID: 7, Status: model.JobStatusPending}}

	var stored []byte
	repo.EXPECT().Set(gomock.Any(), "booking:job:7", gomock.Any(), 2*time.Minute).
		DoAndReturn(func(_ context.Context, _ string, v []byte, _ time.Duration) error {
			stored = v
			return nil
		})
	require.NoError(t, svc.SetJob(ctx, job))

	repo.EXPECT().Get(gomock.Any(), "booking:job:7").Return(stored, nil)
	got, err := svc.GetJob(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, model.JobTypeUnknown, got.JobType)
	assert.Equal(t, model.JobStatusPending, got.Status)
}

func TestJobCacheService_Misses(t *testing.T) {
	svc, repo := newJobCache(t)
	ctx := context.Background()

	repo.EXPECT().Get(gomock.Any(), "booking:job:1").Return(nil, nil)
	got, err := svc.GetJob(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	repo.EXPECT().Get(gomock.Any(), "booking:job:2").Return([]byte("{not json"), nil)
	got, err = svc.GetJob(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, got)

	repo.EXPECT().Get(gomock.Any(), "booking:job:3").Return(nil, errors.New("redis down"))
	_, err = svc.GetJob(ctx, 3)
	require.ErrorContains(t, err, "get cached job")
}

func TestJobCacheService_Invalidate(t *testing.T) {
	svc, repo := newJobCache(t)
	ctx := context.Background()

	repo.EXPECT().Delete(gomock.Any(), "booking:job:9").Return(true, nil)
	require.NoError(t, svc.InvalidateJob(ctx, 9))

	// zero ids and nil jobs never reach the repository
	require.NoError(t, svc.InvalidateJob(ctx, 0))
	require.NoError(t, svc.SetJob(ctx, nil))
}

func TestJobCacheService_EncodesJSON(t *testing.T) {
	svc, repo := newJobCache(t)
	repo.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, v []byte, _ time.Duration) error {
			assert.True(t, json.Valid(v))
			return nil
		})
	require.NoError(t, svc.SetJob(context.Background(), &model.JobWithTranslator{Job: model.Job{ID: 4}}))
}

func TestJobCacheService_RoundTripsTranslator(t *testing.T) {
	svc, repo := newJobCache(t)
	ctx := context.Background()
	due := time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC)
	job := &model.JobWithTranslator{
		Job: model.Job{
			ID:       11,
			UserID:   10,
			Due:      due,
			JobType:  model.JobTypePaid,
			Status:   model.JobStatusAssigned,
			Duration: 60,
		},
		Distance: &model.Distance{JobID: 11, Distance: "12", Time: "30"},
		Translator: &model.TranslatorAssignment{
			TranslatorJob: model.TranslatorJob{JobID: 11, UserID: 20, CreatedAt: due.Add(-time.Hour)},
			User:          model.User{ID: 20, Name: "Tina", UserType: "4", TranslatorType: model.TranslatorTypeProfessional},
		},
	}

	var stored []byte
	repo.EXPECT().Set(gomock.Any(), "booking:job:11", gomock.Any(), 2*time.Minute).
		DoAndReturn(func(_ context.Context, _ string, v []byte, _ time.Duration) error {
			stored = v
			return nil
		})
	require.NoError(t, svc.SetJob(ctx, job))

	repo.EXPECT().Get(gomock.Any(), "booking:job:11").Return(stored, nil)
	got, err := svc.GetJob(ctx, 11)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Translator)
	assert.Equal(t, int64(20), got.Translator.UserID)
	assert.Equal(t, "Tina", got.Translator.User.Name)
	assert.Equal(t, model.TranslatorTypeProfessional, got.Translator.User.TranslatorType)
	require.NotNil(t, got.Distance)
	assert.Equal(t, "12", got.Distance.Distance)
	assert.True(t, due.Equal(got.Due))
}
