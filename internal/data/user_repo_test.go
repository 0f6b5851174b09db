package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/testutil"
)

func TestUserRepo_Lookups(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	created := f.user(t, testutil.NewCustomer(customerRole).WithExternalID("sub-123").WithEmail("Kund@Example.com"))

	byID, err := f.users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Email, byID.Email)
	assert.Equal(t, model.ConsumerTypePaid, byID.ConsumerType)

	bySub, err := f.users.GetByExternalID(ctx, "sub-123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySub.ID)

	byEmail, err := f.users.GetByEmail(ctx, "kund@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = f.users.GetByExternalID(ctx, "")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = f.users.GetByID(ctx, created.ID+100)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepo_CreateRejectsDuplicateEmail(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()
	f.user(t, testutil.NewCustomer(customerRole).WithEmail("dup@example.com"))

	_, err := f.users.Create(ctx, testutil.NewCustomer(customerRole).WithEmail("dup@example.com").Build())
	assert.Error(t, err)

	_, err = f.users.Create(ctx, model.CreateUserRequest{UserType: customerRole})
	assert.EqualError(t, err, "email is required")
}

func TestUserRepo_ListTranslatorsFor(t *testing.T) {
	f := newRepoFixture(t)
	ctx := context.Background()

	pro := f.user(t, testutil.NewTranslator(translatorRole, swedish))
	rws := f.user(t, testutil.NewTranslator(translatorRole, swedish).WithTranslatorType(model.TranslatorTypeRWS))
	vol := f.user(t, testutil.NewTranslator(translatorRole, swedish).WithTranslatorType(model.TranslatorTypeVolunteer))
	f.user(t, testutil.NewTranslator(translatorRole, swedish+1))
	f.user(t, testutil.NewCustomer(customerRole))

	ids := func(users []model.User) []int64 {
		out := make([]int64, len(users))
		for i, u := range users {
			out[i] = u.ID
		}
		return out
	}

	tests := []struct {
		jobType model.JobType
		want    []int64
	}{
		{model.JobTypePaid, []int64{pro.ID}},
		{model.JobTypeRWS, []int64{rws.ID}},
		{model.JobTypeUnpaid, []int64{vol.ID}},
		{model.JobTypeUnknown, []int64{pro.ID, rws.ID, vol.ID}},
	}
	for _, tt := range tests {
		t.Run(string(tt.jobType), func(t *testing.T) {
			got, err := f.users.ListTranslatorsFor(ctx, swedish, tt.jobType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
