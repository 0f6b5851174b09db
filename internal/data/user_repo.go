package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data/pgxutil"
	"github.com/dtapi/booking-api/internal/domain/model"
)

const selectUserSQL = `
	SELECT id, external_id, name, email, phone, user_type, consumer_type,
	       translator_type, gender, created_at, updated_at
	FROM users`

var _ core.UserRepository = (*UserRepo)(nil)

// UserRepoConfig configures a UserRepo.
type UserRepoConfig struct {
	// TranslatorRoleID is the user_type value of translator accounts.
	TranslatorRoleID string
	Logger           *slog.Logger
	TimeProvider     TimeProvider
}

// UserRepo reads accounts and seeds them for the admin command.
type UserRepo struct {
	DB               *sql.DB
	translatorRoleID string
	timeProvider     TimeProvider
	logger           *slog.Logger
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB, cfg UserRepoConfig) *UserRepo {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tp := cfg.TimeProvider
	if tp == nil {
		tp = RealTimeProvider{}
	}
	return &UserRepo{
		DB:               db,
		translatorRoleID: cfg.TranslatorRoleID,
		timeProvider:     tp,
		logger:           logger.With("component", "user_repo"),
	}
}

// GetByID returns the user or ErrUserNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.getOne(ctx, selectUserSQL+" WHERE id = $1", id)
}

// GetByExternalID looks a user up by identity provider subject.
func (r *UserRepo) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx, selectUserSQL+" WHERE external_id = $1", externalID)
}

// GetByEmail looks a user up by email, ignoring case.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUserNotFound
	}
	return r.getOne(ctx, selectUserSQL+" WHERE lower(email) = lower($1)", email)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	var u *model.User
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, arg)
		var e error
		u, e = pgxutil.CollectOne[model.User](rows, qErr, ErrUserNotFound)
		return e
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListTranslatorsFor returns translators speaking languageID whose translator
// type may take jobType jobs. Unknown job types match every translator.
func (r *UserRepo) ListTranslatorsFor(
	ctx context.Context,
	languageID int64,
	jobType model.JobType,
) ([]model.User, error) {
	query := selectUserSQL + `
	WHERE user_type = $1
	  AND EXISTS (SELECT 1 FROM user_languages ul WHERE ul.user_id = users.id AND ul.lang_id = $2)`
	args := []any{r.translatorRoleID, languageID}

	switch jobType {
	case model.JobTypePaid:
		query += " AND translator_type = $3"
		args = append(args, string(model.TranslatorTypeProfessional))
	case model.JobTypeRWS:
		query += " AND translator_type = $3"
		args = append(args, string(model.TranslatorTypeRWS))
	case model.JobTypeUnpaid:
		query += " AND translator_type <> ALL($3)"
		args = append(args, []string{string(model.TranslatorTypeProfessional), string(model.TranslatorTypeRWS)})
	case model.JobTypeUnknown:
	}
	query += " ORDER BY id"

	var out []model.User
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, args...)
		var e error
		out, e = pgxutil.CollectAll[model.User](rows, qErr)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("list translators: %w", err)
	}
	return out, nil
}

// Create inserts a user with its languages in one transaction.
func (r *UserRepo) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return nil, errors.New("email is required")
	}
	if strings.TrimSpace(req.UserType) == "" {
		return nil, errors.New("user_type is required")
	}
	now := r.timeProvider.Now()

	var created *model.User
	err := pgxutil.WithTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		rows, qErr := tx.Query(ctx, `
			INSERT INTO users (external_id, name, email, phone, user_type, consumer_type,
			                   translator_type, gender, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
			RETURNING id, external_id, name, email, phone, user_type, consumer_type,
			          translator_type, gender, created_at, updated_at`,
			req.ExternalID, req.Name, req.Email, req.Phone, req.UserType, req.ConsumerType,
			req.TranslatorType, req.Gender, now,
		)
		var err error
		created, err = pgxutil.CollectOne[model.User](rows, qErr, nil)
		if err != nil {
			return err
		}
		for _, lang := range req.LanguageIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO user_languages (user_id, lang_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				created.ID, lang,
			); err != nil {
				return fmt.Errorf("insert language %d: %w", lang, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	r.logger.InfoContext(ctx, "user created", "user_id", created.ID, "user_type", created.UserType)
	return created, nil
}
