package devseed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
)

type memUsers struct {
	byEmail   map[string]*model.User
	createErr error
	lookupErr error
	nextID    int64
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, core.ErrUserNotFound
}

func (m *memUsers) Create(_ context.Context, req model.CreateUserRequest) (*model.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	u := &model.User{ID: m.nextID, Email: req.Email, UserType: req.UserType, ExternalID: req.ExternalID}
	m.byEmail[req.Email] = u
	return u, nil
}

func roles() config.RolesConfig {
	return config.RolesConfig{AdminRoleID: "1", CustomerRoleID: "3", TranslatorRoleID: "4"}
}

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestRunIsIdempotent(t *testing.T) {
	users := &memUsers{byEmail: map[string]*model.User{}}
	opts := Options{Users: users, Roles: roles(), DevSubject: "dev-user", Logger: quiet()}

	require.NoError(t, Run(context.Background(), opts))
	require.Len(t, users.byEmail, len(Accounts(roles(), "dev-user")))

	require.NoError(t, Run(context.Background(), opts))
	assert.Equal(t, int64(len(users.byEmail)), users.nextID)

	admin := users.byEmail["admin@booking.local"]
	require.NotNil(t, admin.ExternalID)
	assert.Equal(t, "dev-user", *admin.ExternalID)
	assert.Equal(t, "1", admin.UserType)
}

func TestRunCountsFailures(t *testing.T) {
	users := &memUsers{byEmail: map[string]*model.User{}, createErr: errors.New("insert failed")}
	err := Run(context.Background(), Options{Users: users, Roles: roles(), Logger: quiet()})
	require.ErrorContains(t, err, "5 seed errors")

	users = &memUsers{byEmail: map[string]*model.User{}, lookupErr: errors.New("db down")}
	err = Run(context.Background(), Options{Users: users, Roles: roles(), Logger: quiet()})
	require.Error(t, err)
	assert.Zero(t, users.nextID)
}

func TestAccountsWithoutSubject(t *testing.T) {
	accounts := Accounts(roles(), "")
	assert.Nil(t, accounts[0].ExternalID)
	for _, a := range accounts {
		if a.UserType == "4" {
			assert.NotEmpty(t, a.LanguageIDs, a.Email)
		}
	}
}

func TestRunRequiresUsers(t *testing.T) {
	require.Error(t, Run(context.Background(), Options{}))
}
