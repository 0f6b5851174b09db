package data

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/testutil"
)

const (
	customerRole   = "3"
	translatorRole = "4"
	swedish        = int64(7)
)

type repoFixture struct {
	db    *sql.DB
	jobs  *JobRepo
	users *UserRepo
	clock *FixedTimeProvider
}

func newRepoFixture(t *testing.T) *repoFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	clock := NewFixedTimeProvider(testutil.TestTime())
	return &repoFixture{
		db:    db,
		clock: clock,
		jobs:  NewJobRepo(db, RepoConfig{TimeProvider: clock}),
		users: NewUserRepo(db, UserRepoConfig{TranslatorRoleID: translatorRole, TimeProvider: clock}),
	}
}

func (f *repoFixture) user(t *testing.T, b *testutil.UserBuilder) *model.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), b.Build())
	require.NoError(t, err)
	return u
}

func (f *repoFixture) job(t *testing.T, b *testutil.JobBuilder) *model.Job {
	t.Helper()
	j, err := f.jobs.Store(context.Background(), b.Build())
	require.NoError(t, err)
	return j
}

func TestJobRepo_StoreAndGet(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))

	stored := f.job(t, testutil.NewJob(customer.ID, swedish).WithGender("female"))
	assert.NotZero(t, stored.ID)
	assert.Equal(t, model.JobStatusPending, stored.Status)
	assert.Equal(t, "female", stored.Gender)
	require.NotNil(t, stored.WillExpireAt)
	assert.Nil(t, stored.EndAt)

	got, err := f.jobs.GetByID(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.True(t, stored.Due.Equal(got.Due))

	_, err = f.jobs.GetByID(ctx, stored.ID+1000)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobRepo_GetWithTranslator(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	translator := f.user(t, testutil.NewTranslator(translatorRole, swedish))
	job := f.job(t, testutil.NewJob(customer.ID, swedish))

	bare, err := f.jobs.GetWithTranslator(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, bare.Distance)
	assert.Nil(t, bare.Translator)

	_, err = f.jobs.UpdateDistance(ctx, job.ID, model.DistanceUpdate{Distance: "12 km", Time: "00:20"})
	require.NoError(t, err)
	_, err = f.jobs.AcceptJob(ctx, job.ID, translator.ID)
	require.NoError(t, err)

	full, err := f.jobs.GetWithTranslator(ctx, job.ID)
	require.NoError(t, err)
	require.NotNil(t, full.Distance)
	assert.Equal(t, "12 km", full.Distance.Distance)
	require.NotNil(t, full.Translator)
	assert.Equal(t, translator.ID, full.Translator.User.ID)
	assert.Equal(t, translator.Email, full.Translator.User.Email)
	assert.Equal(t, model.JobStatusAssigned, full.Status)
}

func TestJobRepo_UpdateDistanceUpserts(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	job := f.job(t, testutil.NewJob(customer.ID, swedish))

	n, err := f.jobs.UpdateDistance(ctx, job.ID, model.DistanceUpdate{Distance: "5"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = f.jobs.UpdateDistance(ctx, job.ID, model.DistanceUpdate{Distance: "6", Time: "01:00"})
	require.NoError(t, err)

	got, err := f.jobs.GetWithTranslator(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "6", got.Distance.Distance)
	assert.Equal(t, "01:00", got.Distance.Time)
}

func TestJobRepo_UpdateAdminFields(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	job := f.job(t, testutil.NewJob(customer.ID, swedish))

	require.NoError(t, f.jobs.UpdateAdminFields(ctx, job.ID, model.AdminFieldsUpdate{
		AdminComments: "late start", Flagged: true, SessionTime: "00:45:00", ManuallyHandled: true,
	}))
	got, err := f.jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "late start", got.AdminComments)
	assert.True(t, got.Flagged)
	assert.True(t, got.ManuallyHandled)
	assert.False(t, got.ByAdmin)
	assert.Equal(t, "00:45:00", got.SessionTime)

	err = f.jobs.UpdateAdminFields(ctx, job.ID+999, model.AdminFieldsUpdate{Flagged: true})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobRepo_UpdateJobPartial(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	job := f.job(t, testutil.NewJob(customer.ID, swedish))

	town := "Malmö"
	duration := 120
	got, err := f.jobs.UpdateJob(ctx, job.ID, model.JobUpdate{Town: &town, Duration: &duration})
	require.NoError(t, err)
	assert.Equal(t, "Malmö", got.Town)
	assert.Equal(t, 120, got.Duration)
	assert.Equal(t, job.FromLanguageID, got.FromLanguageID)

	_, err = f.jobs.UpdateJob(ctx, job.ID+999, model.JobUpdate{Town: &town})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobRepo_StoreJobEmail(t *testing.T) {
	f := newRepoFixture(t)
	customer := f.user(t, testutil.NewCustomer(customerRole))
	job := f.job(t, testutil.NewJob(customer.ID, swedish).Immediate())

	got, err := f.jobs.StoreJobEmail(context.Background(), model.JobEmailUpdate{
		JobID: job.ID, UserEmail: "contact@example.com", Reference: "R1", Town: "Lund",
	})
	require.NoError(t, err)
	assert.Equal(t, "contact@example.com", got.UserEmail)
	assert.Equal(t, "R1", got.Reference)
	assert.Equal(t, "Lund", got.Town)
}

func TestJobRepo_AcceptJob(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	first := f.user(t, testutil.NewTranslator(translatorRole, swedish))
	second := f.user(t, testutil.NewTranslator(translatorRole, swedish))

	t.Run("second translator loses", func(t *testing.T) {
		job := f.job(t, testutil.NewJob(customer.ID, swedish))
		accepted, err := f.jobs.AcceptJob(ctx, job.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusAssigned, accepted.Status)

		_, err = f.jobs.AcceptJob(ctx, job.ID, second.ID)
		assert.ErrorIs(t, err, ErrJobAlreadyAccepted)
	})

	t.Run("overlapping assignment is refused", func(t *testing.T) {
		due := testutil.TestTime().Add(10 * 24 * time.Hour)
		a := f.job(t, testutil.NewJob(customer.ID, swedish).DueAt(due).WithDuration(90))
		b := f.job(t, testutil.NewJob(customer.ID, swedish).DueAt(due.Add(30*time.Minute)))
		c := f.job(t, testutil.NewJob(customer.ID, swedish).DueAt(due.Add(90*time.Minute)))

		_, err := f.jobs.AcceptJob(ctx, a.ID, second.ID)
		require.NoError(t, err)
		_, err = f.jobs.AcceptJob(ctx, b.ID, second.ID)
		assert.ErrorIs(t, err, ErrTranslatorBooked)
		_, err = f.jobs.AcceptJob(ctx, c.ID, second.ID)
		assert.NoError(t, err, "back-to-back bookings do not overlap")
	})

	t.Run("unknown job", func(t *testing.T) {
		_, err := f.jobs.AcceptJob(ctx, 987654, first.ID)
		assert.ErrorIs(t, err, ErrJobNotFound)
	})
}

func TestJobRepo_AcceptJob_Concurrent(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	job := f.job(t, testutil.NewJob(customer.ID, swedish))

	const n = 5
	translators := make([]*model.User, n)
	for i := range translators {
		translators[i] = f.user(t, testutil.NewTranslator(translatorRole, swedish))
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range translators {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.jobs.AcceptJob(ctx, job.ID, translators[i].ID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, ErrJobAlreadyAccepted)
	}
	assert.Equal(t, 1, winners)
}

func TestJobRepo_CancelJob(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	translator := f.user(t, testutil.NewTranslator(translatorRole, swedish))
	now := f.clock.Now()

	t.Run("translator release returns job to pending", func(t *testing.T) {
		job := f.job(t, testutil.NewJob(customer.ID, swedish))
		_, err := f.jobs.AcceptJob(ctx, job.ID, translator.ID)
		require.NoError(t, err)

		got, err := f.jobs.CancelJob(ctx, model.CancelParams{
			JobID: job.ID, Status: model.JobStatusPending, ReleaseTranslator: true, At: now,
		})
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusPending, got.Status)

		full, err := f.jobs.GetWithTranslator(ctx, job.ID)
		require.NoError(t, err)
		assert.Nil(t, full.Translator)
	})

	t.Run("release of a pending job is refused", func(t *testing.T) {
		job := f.job(t, testutil.NewJob(customer.ID, swedish))
		_, err := f.jobs.CancelJob(ctx, model.CancelParams{JobID: job.ID, Status: model.JobStatusPending, At: now})
		assert.ErrorIs(t, err, ErrJobNotCancellable)
	})

	t.Run("customer withdrawal", func(t *testing.T) {
		job := f.job(t, testutil.NewJob(customer.ID, swedish))
		got, err := f.jobs.CancelJob(ctx, model.CancelParams{
			JobID: job.ID, Status: model.JobStatusWithdrawBefore24, ReleaseTranslator: true, At: now,
		})
		require.NoError(t, err)
		assert.Equal(t, model.JobStatusWithdrawBefore24, got.Status)

		_, err = f.jobs.CancelJob(ctx, model.CancelParams{JobID: job.ID, Status: model.JobStatusWithdrawAfter24, At: now})
		assert.ErrorIs(t, err, ErrJobNotCancellable)
	})
}

func TestJobRepo_EndAndNoShow(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	translator := f.user(t, testutil.NewTranslator(translatorRole, swedish))
	at := f.clock.Now().Add(8 * 24 * time.Hour)

	pending := f.job(t, testutil.NewJob(customer.ID, swedish))
	_, err := f.jobs.EndJob(ctx, core.EndJobParams{JobID: pending.ID, At: at})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	job := f.job(t, testutil.NewJob(customer.ID, swedish).DueAt(f.clock.Now().Add(30*24*time.Hour)))
	_, err = f.jobs.AcceptJob(ctx, job.ID, translator.ID)
	require.NoError(t, err)
	ended, err := f.jobs.EndJob(ctx, core.EndJobParams{JobID: job.ID, At: at, SessionTime: "01:00:00"})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusCompleted, ended.Status)
	assert.Equal(t, "01:00:00", ended.SessionTime)
	require.NotNil(t, ended.EndAt)

	noShow := f.job(t, testutil.NewJob(customer.ID, swedish).DueAt(f.clock.Now().Add(40*24*time.Hour)))
	_, err = f.jobs.AcceptJob(ctx, noShow.ID, translator.ID)
	require.NoError(t, err)
	got, err := f.jobs.CustomerNotCall(ctx, noShow.ID, at)
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusNotCarriedOutCustomer, got.Status)
}

func TestJobRepo_Reopen(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	now := f.clock.Now()
	job := f.job(t, testutil.NewJob(customer.ID, swedish))

	_, err := f.jobs.Reopen(ctx, model.ReopenParams{JobID: job.ID, WillExpireAt: now.Add(time.Hour), At: now})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.jobs.CancelJob(ctx, model.CancelParams{JobID: job.ID, Status: model.JobStatusWithdrawAfter24, At: now})
	require.NoError(t, err)

	expires := now.Add(16 * time.Hour)
	got, err := f.jobs.Reopen(ctx, model.ReopenParams{JobID: job.ID, WillExpireAt: expires, At: now})
	require.NoError(t, err)
	assert.Equal(t, model.JobStatusPending, got.Status)
	require.NotNil(t, got.WillExpireAt)
	assert.True(t, expires.Equal(*got.WillExpireAt))
}

func TestJobRepo_GetPotentialJobs(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	translator := f.user(t, testutil.NewTranslator(translatorRole, swedish).WithGender("male"))

	match := f.job(t, testutil.NewJob(customer.ID, swedish))
	f.job(t, testutil.NewJob(customer.ID, swedish).WithGender("female"))
	f.job(t, testutil.NewJob(customer.ID, swedish+1))
	f.job(t, testutil.NewJob(customer.ID, swedish).WithJobType(model.JobTypeRWS))
	f.job(t, testutil.NewJob(customer.ID, swedish).DueAt(f.clock.Now().Add(-time.Hour)))

	jobs, err := f.jobs.GetPotentialJobs(ctx, translator.ID, model.JobTypePaid)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, match.ID, jobs[0].ID)
}

func TestJobRepo_GetUsersJobs(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	translator := f.user(t, testutil.NewTranslator(translatorRole, swedish))
	now := f.clock.Now()

	a := f.job(t, testutil.NewJob(customer.ID, swedish))
	b := f.job(t, testutil.NewJob(customer.ID, swedish).DueAt(now.Add(20*24*time.Hour)))
	c := f.job(t, testutil.NewJob(customer.ID, swedish))
	_, err := f.jobs.CancelJob(ctx, model.CancelParams{JobID: c.ID, Status: model.JobStatusWithdrawBefore24, At: now})
	require.NoError(t, err)
	_, err = f.jobs.AcceptJob(ctx, b.ID, translator.ID)
	require.NoError(t, err)

	own, err := f.jobs.GetUsersJobs(ctx, customer.ID, false)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, a.ID, own[0].ID)
	assert.Equal(t, b.ID, own[1].ID)

	assigned, err := f.jobs.GetUsersJobs(ctx, translator.ID, true)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, b.ID, assigned[0].ID)
}

func TestJobRepo_GetAllFilters(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	alice := f.user(t, testutil.NewCustomer(customerRole).WithEmail("alice@example.com"))
	bob := f.user(t, testutil.NewCustomer(customerRole))
	translator := f.user(t, testutil.NewTranslator(translatorRole, swedish).WithEmail("tolk@example.com"))

	for range 3 {
		f.job(t, testutil.NewJob(alice.ID, swedish))
	}
	immediate := f.job(t, testutil.NewJob(bob.ID, swedish+1).Immediate())
	accepted := f.job(t, testutil.NewJob(bob.ID, swedish))
	_, err := f.jobs.AcceptJob(ctx, accepted.ID, translator.ID)
	require.NoError(t, err)

	page, err := f.jobs.GetAll(ctx, model.JobListFilter{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.LastPage)

	byCustomer, err := f.jobs.GetAll(ctx, model.JobListFilter{CustomerEmail: "ALICE@example.com", Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, byCustomer.Total)

	byTranslator, err := f.jobs.GetAll(ctx, model.JobListFilter{TranslatorEmail: "tolk@example.com", Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, byTranslator.Data, 1)
	assert.Equal(t, accepted.ID, byTranslator.Data[0].ID)

	yes := true
	byFlags, err := f.jobs.GetAll(ctx, model.JobListFilter{
		Immediate: &yes, LanguageIDs: []int64{swedish + 1}, Page: 1, PerPage: 10,
	})
	require.NoError(t, err)
	require.Len(t, byFlags.Data, 1)
	assert.Equal(t, immediate.ID, byFlags.Data[0].ID)

	byStatus, err := f.jobs.GetAll(ctx, model.JobListFilter{
		Statuses: []model.JobStatus{model.JobStatusAssigned}, IDs: []int64{accepted.ID, immediate.ID}, Page: 1, PerPage: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, byStatus.Total)
}

func TestJobRepo_GetUsersJobsHistory(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	now := f.clock.Now()

	f.job(t, testutil.NewJob(customer.ID, swedish))
	for range 3 {
		j := f.job(t, testutil.NewJob(customer.ID, swedish))
		_, err := f.jobs.CancelJob(ctx, model.CancelParams{JobID: j.ID, Status: model.JobStatusWithdrawBefore24, At: now})
		require.NoError(t, err)
	}

	page, err := f.jobs.GetUsersJobsHistory(ctx, core.HistoryQuery{UserID: customer.ID, Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Data, 1)
	for _, j := range page.Data {
		assert.False(t, j.Status.Active())
	}
}

func TestJobRepo_ExpirePending(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	customer := f.user(t, testutil.NewCustomer(customerRole))
	now := f.clock.Now()

	stale := f.job(t, testutil.NewJob(customer.ID, swedish).ExpiresAt(now.Add(-time.Minute)))
	f.job(t, testutil.NewJob(customer.ID, swedish).ExpiresAt(now.Add(time.Hour)))
	f.job(t, testutil.NewJob(customer.ID, swedish).ExpiresAt(now.Add(-2*time.Minute)))

	expired, err := f.jobs.ExpirePending(ctx, now, 1)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, model.JobStatusTimedOut, expired[0].Status)
	assert.NotEqual(t, stale.ID, expired[0].ID, "oldest expiry goes first")

	expired, err = f.jobs.ExpirePending(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, stale.ID, expired[0].ID)

	expired, err = f.jobs.ExpirePending(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, expired)
}
