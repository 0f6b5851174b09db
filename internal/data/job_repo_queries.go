package data

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data/database"
	"github.com/dtapi/booking-api/internal/data/pgxutil"
	"github.com/dtapi/booking-api/internal/domain/model"
)

var activeStatuses = []string{
	string(model.JobStatusPending), string(model.JobStatusAssigned), string(model.JobStatusStarted),
}

// GetPotentialJobs lists pending jobs of jobType in the translator's
// languages that are still in the future and do not ask for another gender.
func (r *JobRepo) GetPotentialJobs(ctx context.Context, translatorID int64, jobType model.JobType) ([]model.Job, error) {
	query := `
		SELECT ` + jobColumns("j") + `
		FROM jobs j
		JOIN user_languages ul ON ul.lang_id = j.from_language_id AND ul.user_id = $1
		JOIN users t ON t.id = ul.user_id
		WHERE j.status = 'pending'
		  AND j.job_type = $2
		  AND j.due > $3
		  AND (j.gender = '' OR lower(j.gender) = lower(t.gender))
		ORDER BY j.due ASC, j.id ASC`
	return r.listJobs(ctx, query, translatorID, jobType, r.timeProvider.Now())
}

// GetUsersJobs lists the active jobs of a customer, or the live assignments of a translator.
func (r *JobRepo) GetUsersJobs(ctx context.Context, userID int64, asTranslator bool) ([]model.Job, error) {
	if asTranslator {
		return r.listJobs(ctx, `
			SELECT `+jobColumns("j")+`
			FROM jobs j
			JOIN translator_jobs tj ON tj.job_id = j.id
			WHERE tj.user_id = $1 AND tj.cancel_at IS NULL AND j.status = ANY($2)
			ORDER BY j.due ASC, j.id ASC`,
			userID, activeStatuses,
		)
	}
	return r.listJobs(ctx, `
		SELECT `+jobColumns("")+`
		FROM jobs
		WHERE user_id = $1 AND status = ANY($2)
		ORDER BY due ASC, id ASC`,
		userID, activeStatuses,
	)
}

func (r *JobRepo) listJobs(ctx context.Context, query string, args ...any) ([]model.Job, error) {
	var out []model.Job
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, qErr := conn.Query(ctx, query, args...)
		var e error
		out, e = pgxutil.CollectAll[model.Job](rows, qErr)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return out, nil
}

// GetAll returns one page of the admin listing. The page and the total are
// fetched concurrently on separate connections.
func (r *JobRepo) GetAll(ctx context.Context, f model.JobListFilter) (*model.JobPage, error) {
	conds := listConditions(f)
	pageOpts := database.NewListQueryOptions("jobs",
		database.WithAlias("j"),
		database.WithColumns(strings.Split(jobColumns("j"), ", ")...),
		database.WithConditions(conds...),
		database.WithOrderBy("j.created_at", "DESC"),
		database.WithOrderBy("j.id", "DESC"),
		database.WithLimit(f.PerPage),
		database.WithOffset(f.Offset()),
	)
	countOpts := database.NewListQueryOptions("jobs",
		database.WithAlias("j"),
		database.WithConditions(conds...),
		database.WithCountOnly(),
	)
	return r.page(ctx, pageOpts, countOpts, f.Page, f.PerPage)
}

// GetUsersJobsHistory pages through a user's finished jobs, newest due first.
func (r *JobRepo) GetUsersJobsHistory(ctx context.Context, q core.HistoryQuery) (*model.JobPage, error) {
	conds := []database.Condition{
		database.WhereRaw("NOT (j.status = ANY($1))", activeStatuses),
	}
	if q.AsTranslator {
		conds = append(conds, database.WhereRaw(`EXISTS (
			SELECT 1 FROM translator_jobs tj
			WHERE tj.job_id = j.id AND tj.user_id = $1 AND tj.cancel_at IS NULL)`, q.UserID))
	} else {
		conds = append(conds, database.WhereCond("j.user_id", database.Equal, q.UserID))
	}
	offset := 0
	if q.Page > 1 {
		offset = (q.Page - 1) * q.PerPage
	}

	pageOpts := database.NewListQueryOptions("jobs",
		database.WithAlias("j"),
		database.WithColumns(strings.Split(jobColumns("j"), ", ")...),
		database.WithConditions(conds...),
		database.WithOrderBy("j.due", "DESC"),
		database.WithOrderBy("j.id", "DESC"),
		database.WithLimit(q.PerPage),
		database.WithOffset(offset),
	)
	countOpts := database.NewListQueryOptions("jobs",
		database.WithAlias("j"),
		database.WithConditions(conds...),
		database.WithCountOnly(),
	)
	return r.page(ctx, pageOpts, countOpts, q.Page, q.PerPage)
}

func (r *JobRepo) page(
	ctx context.Context,
	pageOpts, countOpts *database.ListQueryOptions,
	page, perPage int,
) (*model.JobPage, error) {
	pageSQL, pageArgs := database.BuildListQuery(pageOpts)
	countSQL, countArgs := database.BuildListQuery(countOpts)

	var (
		data  []model.Job
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data, err = r.listJobs(gctx, pageSQL, pageArgs...)
		return err
	})
	g.Go(func() error {
		if err := r.DB.QueryRowContext(gctx, countSQL, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("count jobs: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return model.NewJobPage(data, total, page, perPage), nil
}

func listConditions(f model.JobListFilter) []database.Condition {
	var conds []database.Condition
	if len(f.IDs) > 0 {
		conds = append(conds, database.WhereCond("j.id", database.Any, f.IDs))
	}
	if len(f.LanguageIDs) > 0 {
		conds = append(conds, database.WhereCond("j.from_language_id", database.Any, f.LanguageIDs))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		conds = append(conds, database.WhereCond("j.status", database.Any, statuses))
	}
	if len(f.JobTypes) > 0 {
		types := make([]string, len(f.JobTypes))
		for i, t := range f.JobTypes {
			types[i] = string(t)
		}
		conds = append(conds, database.WhereCond("j.job_type", database.Any, types))
	}
	if f.CustomerEmail != "" {
		conds = append(conds, database.WhereRaw(
			"j.user_id IN (SELECT id FROM users WHERE lower(email) = lower($1))", f.CustomerEmail))
	}
	if f.TranslatorEmail != "" {
		conds = append(conds, database.WhereRaw(`EXISTS (
			SELECT 1 FROM translator_jobs tj JOIN users u ON u.id = tj.user_id
			WHERE tj.job_id = j.id AND tj.cancel_at IS NULL AND lower(u.email) = lower($1))`, f.TranslatorEmail))
	}
	if f.Immediate != nil {
		conds = append(conds, database.WhereCond("j.immediate", database.Equal, *f.Immediate))
	}
	if f.Flagged != nil {
		conds = append(conds, database.WhereCond("j.flagged", database.Equal, *f.Flagged))
	}
	if f.From != nil {
		conds = append(conds, database.WhereCond("j.due", database.GreaterThanOrEqual, *f.From))
	}
	if f.To != nil {
		conds = append(conds, database.WhereCond("j.due", database.LessThanOrEqual, *f.To))
	}
	return conds
}
