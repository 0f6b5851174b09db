package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data/pgxutil"
	"github.com/dtapi/booking-api/internal/domain/model"
)

var _ core.JobRepository = (*JobRepo)(nil)

// RepoConfig holds configuration options for the booking repositories.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// JobRepo provides booking persistence over Postgres.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *sql.DB, cfg RepoConfig) *JobRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = RealTimeProvider{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobRepo{
		DB:           db,
		timeProvider: tp,
		logger:       logger.With("component", "job_repo"),
	}
}

var jobColumnNames = []string{
	"id", "user_id", "from_language_id", "immediate", "due", "duration", "will_expire_at",
	"customer_phone_type", "customer_physical_type", "job_type", "status", "by_admin",
	"flagged", "manually_handled", "admin_comments", "session_time", "gender", "certified",
	"address", "instructions", "town", "reference", "user_email", "b_created_at", "end_at",
	"created_at", "updated_at",
}

// jobColumns renders the job column list, qualified with alias when set.
func jobColumns(alias string) string {
	if alias == "" {
		return strings.Join(jobColumnNames, ", ")
	}
	cols := make([]string, len(jobColumnNames))
	for i, c := range jobColumnNames {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

var (
	selectJobSQL       = "SELECT " + jobColumns("") + " FROM jobs WHERE id = $1"
	selectJobForUpdate = selectJobSQL + " FOR UPDATE"
)

// GetByID returns the job or ErrJobNotFound.
func (r *JobRepo) GetByID(ctx context.Context, id int64) (*model.Job, error) {
	var job *model.Job
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		job, e = loadJob(ctx, conn, selectJobSQL, id)
		return e
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func loadJob(ctx context.Context, q pgxutil.Querier, query string, id int64) (*model.Job, error) {
	rows, err := q.Query(ctx, query, id)
	job, err := pgxutil.CollectOne[model.Job](rows, err, ErrJobNotFound)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load job %d: %w", id, err)
	}
	return job, nil
}

const (
	selectDistanceSQL = `SELECT job_id, distance, time FROM distances WHERE job_id = $1`

	selectActiveAssignmentSQL = `
		SELECT job_id, user_id, completed_at, cancel_at, created_at
		FROM translator_jobs
		WHERE job_id = $1 AND cancel_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`
)

// GetWithTranslator loads the job with its distance and active translator.
// Missing relations are left nil.
func (r *JobRepo) GetWithTranslator(ctx context.Context, id int64) (*model.JobWithTranslator, error) {
	var out *model.JobWithTranslator
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var e error
		out, e = loadJobWithTranslator(ctx, conn, id)
		return e
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadJobWithTranslator(ctx context.Context, q pgxutil.Querier, id int64) (*model.JobWithTranslator, error) {
	job, err := loadJob(ctx, q, selectJobSQL, id)
	if err != nil {
		return nil, err
	}
	out := &model.JobWithTranslator{Job: *job}

	rows, err := q.Query(ctx, selectDistanceSQL, id)
	dist, err := pgxutil.CollectOne[model.Distance](rows, err, nil)
	switch {
	case err == nil:
		out.Distance = dist
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("load distance: %w", err)
	}

	rows, err = q.Query(ctx, selectActiveAssignmentSQL, id)
	tj, err := pgxutil.CollectOne[model.TranslatorJob](rows, err, nil)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return out, nil
	case err != nil:
		return nil, fmt.Errorf("load assignment: %w", err)
	}

	rows, err = q.Query(ctx, selectUserSQL+" WHERE id = $1", tj.UserID)
	user, err := pgxutil.CollectOne[model.User](rows, err, ErrUserNotFound)
	if err != nil {
		return nil, fmt.Errorf("load translator %d: %w", tj.UserID, err)
	}
	out.Translator = &model.TranslatorAssignment{TranslatorJob: *tj, User: *user}
	return out, nil
}

// Store inserts a validated booking.
func (r *JobRepo) Store(ctx context.Context, nj *model.NewJob) (*model.Job, error) {
	if nj == nil {
		return nil, errors.New("new job is required")
	}
	now := r.timeProvider.Now()
	query := `
		INSERT INTO jobs (
			user_id, from_language_id, immediate, due, duration, will_expire_at,
			customer_phone_type, customer_physical_type, job_type, status, by_admin,
			gender, certified, address, instructions, town, reference,
			b_created_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'pending', $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		RETURNING ` + jobColumns("")

	var job *model.Job
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query,
			nj.UserID, nj.FromLanguageID, nj.Immediate, nj.Due, nj.Duration, nj.WillExpireAt,
			nj.CustomerPhoneType, nj.CustomerPhysicalType, nj.JobType, nj.ByAdmin,
			nj.Gender, nj.Certified, nj.Address, nj.Instructions, nj.Town, nj.Reference,
			nj.BCreatedAt, now,
		)
		var e error
		job, e = pgxutil.CollectOne[model.Job](rows, qErr, nil)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	r.logger.DebugContext(ctx, "job stored", "job_id", job.ID, "user_id", job.UserID, "immediate", job.Immediate)
	return job, nil
}

// UpdateAdminFields writes the admin bookkeeping of a distance feed.
func (r *JobRepo) UpdateAdminFields(ctx context.Context, jobID int64, u model.AdminFieldsUpdate) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE jobs
		SET admin_comments = $2, flagged = $3, session_time = $4,
		    manually_handled = $5, by_admin = $6, updated_at = $7
		WHERE id = $1`,
		jobID, u.AdminComments, u.Flagged, u.SessionTime, u.ManuallyHandled, u.ByAdmin, r.timeProvider.Now(),
	)
	if err != nil {
		return fmt.Errorf("update admin fields: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update admin fields: %w", err)
	}
	if n == 0 {
		return ErrJobNotFound
	}
	return nil
}

// UpdateDistance upserts the distance relation of a job.
func (r *JobRepo) UpdateDistance(ctx context.Context, jobID int64, u model.DistanceUpdate) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO distances (job_id, distance, time)
		VALUES ($1, $2, $3)
		ON CONFLICT (job_id) DO UPDATE
		SET distance = EXCLUDED.distance, time = EXCLUDED.time`,
		jobID, u.Distance, u.Time,
	)
	if err != nil {
		return 0, fmt.Errorf("update distance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update distance: %w", err)
	}
	return n, nil
}

// setList accumulates "col = $n" assignments for partial updates.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, col+" = $"+strconv.Itoa(len(s.args)))
}

// UpdateJob applies a partial update and returns the stored job.
func (r *JobRepo) UpdateJob(ctx context.Context, jobID int64, u model.JobUpdate) (*model.Job, error) {
	var s setList
	if u.FromLanguageID != nil {
		s.add("from_language_id", *u.FromLanguageID)
	}
	if u.Due != nil {
		s.add("due", *u.Due)
	}
	if u.WillExpireAt != nil {
		s.add("will_expire_at", *u.WillExpireAt)
	}
	if u.Duration != nil {
		s.add("duration", *u.Duration)
	}
	if u.AdminComments != nil {
		s.add("admin_comments", *u.AdminComments)
	}
	if u.Reference != nil {
		s.add("reference", *u.Reference)
	}
	if u.Address != nil {
		s.add("address", *u.Address)
	}
	if u.Instructions != nil {
		s.add("instructions", *u.Instructions)
	}
	if u.Town != nil {
		s.add("town", *u.Town)
	}
	if len(s.cols) == 0 {
		return r.GetByID(ctx, jobID)
	}
	s.add("updated_at", r.timeProvider.Now())
	s.args = append(s.args, jobID)

	query := "UPDATE jobs SET " + strings.Join(s.cols, ", ") +
		" WHERE id = $" + strconv.Itoa(len(s.args)) + " RETURNING " + jobColumns("")
	return r.updateReturning(ctx, query, s.args...)
}

// StoreJobEmail records the contact details of an immediate job.
func (r *JobRepo) StoreJobEmail(ctx context.Context, u model.JobEmailUpdate) (*model.Job, error) {
	return r.updateReturning(ctx, `
		UPDATE jobs
		SET user_email = $2, reference = $3, address = $4, instructions = $5, town = $6, updated_at = $7
		WHERE id = $1
		RETURNING `+jobColumns(""),
		u.JobID, u.UserEmail, u.Reference, u.Address, u.Instructions, u.Town, r.timeProvider.Now(),
	)
}

func (r *JobRepo) updateReturning(ctx context.Context, query string, args ...any) (*model.Job, error) {
	var job *model.Job
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, args...)
		var e error
		job, e = pgxutil.CollectOne[model.Job](rows, qErr, ErrJobNotFound)
		return e
	})
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, nil
}
