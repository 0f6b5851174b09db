// Package devseed creates the development accounts that mock auth logs in as.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dtapi/booking-api/config"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// Users is the slice of the user repository seeding needs.
type Users interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
}

// Options configures Run.
type Options struct {
	Users Users
	Roles config.RolesConfig
	// DevSubject becomes the external_id of the seeded admin so mock logins resolve to it.
	DevSubject string
	Logger     *slog.Logger
}

// Language ids given to the seeded translators.
const (
	langGerman  int64 = 1
	langSwedish int64 = 2
	langArabic  int64 = 3
)

// Accounts returns the development accounts in creation order.
func Accounts(roles config.RolesConfig, devSubject string) []model.CreateUserRequest {
	var adminExternal *string
	if devSubject != "" {
		adminExternal = &devSubject
	}
	return []model.CreateUserRequest{
		{
			ExternalID: adminExternal,
			Name:       "Dev Admin",
			Email:      "admin@booking.local",
			UserType:   roles.AdminRoleID,
		},
		{
			Name:         "Paid Customer",
			Email:        "customer@booking.local",
			Phone:        "+46700000001",
			UserType:     roles.CustomerRoleID,
			ConsumerType: model.ConsumerTypePaid,
		},
		{
			Name:         "NGO Customer",
			Email:        "ngo@booking.local",
			Phone:        "+46700000002",
			UserType:     roles.CustomerRoleID,
			ConsumerType: model.ConsumerTypeNGO,
		},
		{
			Name:           "Professional Translator",
			Email:          "translator@booking.local",
			Phone:          "+46700000003",
			UserType:       roles.TranslatorRoleID,
			TranslatorType: model.TranslatorTypeProfessional,
			Gender:         "female",
			LanguageIDs:    []int64{langGerman, langSwedish},
		},
		{
			Name:           "Volunteer Translator",
			Email:          "volunteer@booking.local",
			Phone:          "+46700000004",
			UserType:       roles.TranslatorRoleID,
			TranslatorType: model.TranslatorTypeVolunteer,
			Gender:         "male",
			LanguageIDs:    []int64{langArabic},
		},
	}
}

// Run creates every missing development account. Existing emails are left alone.
func Run(ctx context.Context, opts Options) error {
	if opts.Users == nil {
		return errors.New("user repository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	created, failures := 0, 0
	for _, req := range Accounts(opts.Roles, opts.DevSubject) {
		existing, err := opts.Users.GetByEmail(ctx, req.Email)
		switch {
		case err == nil && existing != nil:
			logger.DebugContext(ctx, "seed user exists", "email", req.Email, "user_id", existing.ID)
			continue
		case err != nil && !errors.Is(err, core.ErrUserNotFound):
			logger.ErrorContext(ctx, "lookup seed user failed", "email", req.Email, "error", err)
			failures++
			continue
		}

		u, err := opts.Users.Create(ctx, req)
		if err != nil {
			logger.ErrorContext(ctx, "create seed user failed", "email", req.Email, "error", err)
			failures++
			continue
		}
		created++
		logger.InfoContext(ctx, "seed user created", "email", u.Email, "user_id", u.ID, "user_type", u.UserType)
	}

	logger.InfoContext(ctx, "development seeding finished", "created", created, "failed", failures)
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}
