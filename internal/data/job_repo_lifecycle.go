package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data/pgxutil"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// overlappingAssignmentSQL reports whether a translator holds a live
// assignment whose time window intersects [$2, $3).
const overlappingAssignmentSQL = `
	SELECT EXISTS (
		SELECT 1
		FROM translator_jobs tj
		JOIN jobs j ON j.id = tj.job_id
		WHERE tj.user_id = $1
		  AND tj.cancel_at IS NULL
		  AND tj.completed_at IS NULL
		  AND j.status IN ('assigned', 'started')
		  AND j.due < $3
		  AND j.due + make_interval(mins => j.duration) > $2
	)`

// AcceptJob assigns a pending job to translatorID. The job row is locked for
// the duration of the check so two translators cannot both win.
func (r *JobRepo) AcceptJob(ctx context.Context, jobID, translatorID int64) (*model.Job, error) {
	var accepted *model.Job
	err := pgxutil.WithTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		job, err := loadJob(ctx, tx, selectJobForUpdate, jobID)
		if err != nil {
			return err
		}
		if job.Status != model.JobStatusPending {
			return ErrJobAlreadyAccepted
		}

		end := job.Due.Add(time.Duration(job.Duration) * time.Minute)
		var busy bool
		if err := tx.QueryRow(ctx, overlappingAssignmentSQL, translatorID, job.Due, end).Scan(&busy); err != nil {
			return fmt.Errorf("check translator availability: %w", err)
		}
		if busy {
			return ErrTranslatorBooked
		}

		now := r.timeProvider.Now()
		if _, err := tx.Exec(ctx,
			`INSERT INTO translator_jobs (job_id, user_id, created_at) VALUES ($1, $2, $3)`,
			jobID, translatorID, now,
		); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
		accepted, err = setStatus(ctx, tx, jobID, model.JobStatusAssigned, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "job accepted", "job_id", jobID, "translator_id", translatorID)
	return accepted, nil
}

// AcceptJobWithID accepts the job and returns it with the new assignment loaded.
func (r *JobRepo) AcceptJobWithID(ctx context.Context, jobID, translatorID int64) (*model.JobWithTranslator, error) {
	if _, err := r.AcceptJob(ctx, jobID, translatorID); err != nil {
		return nil, err
	}
	return r.GetWithTranslator(ctx, jobID)
}

// CancelJob applies a planned cancellation. A release back to pending
// requires an assigned job; withdrawals require a pending or assigned job.
func (r *JobRepo) CancelJob(ctx context.Context, p model.CancelParams) (*model.Job, error) {
	var out *model.Job
	err := pgxutil.WithTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		job, err := loadJob(ctx, tx, selectJobForUpdate, p.JobID)
		if err != nil {
			return err
		}
		switch {
		case p.Status == model.JobStatusPending && job.Status != model.JobStatusAssigned:
			return ErrJobNotCancellable
		case job.Status != model.JobStatusPending && job.Status != model.JobStatusAssigned:
			return ErrJobNotCancellable
		}

		if p.ReleaseTranslator {
			if err := releaseAssignment(ctx, tx, p.JobID, p.At); err != nil {
				return err
			}
		}
		out, err = setStatus(ctx, tx, p.JobID, p.Status, p.At)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "job cancelled", "job_id", p.JobID, "status", p.Status)
	return out, nil
}

// EndJob completes an assigned or started job and stamps the assignment.
func (r *JobRepo) EndJob(ctx context.Context, p core.EndJobParams) (*model.Job, error) {
	return r.finish(ctx, p.JobID, p.At, func(tx pgx.Tx) (*model.Job, error) {
		return updateOne(ctx, tx, `
			UPDATE jobs
			SET status = 'completed', end_at = $2, session_time = $3, updated_at = $2
			WHERE id = $1
			RETURNING `+jobColumns(""),
			p.JobID, p.At, p.SessionTime,
		)
	})
}

// CustomerNotCall records that the customer never showed up for an assigned job.
func (r *JobRepo) CustomerNotCall(ctx context.Context, jobID int64, at time.Time) (*model.Job, error) {
	return r.finish(ctx, jobID, at, func(tx pgx.Tx) (*model.Job, error) {
		return updateOne(ctx, tx, `
			UPDATE jobs
			SET status = 'not_carried_out_customer', end_at = $2, updated_at = $2
			WHERE id = $1
			RETURNING `+jobColumns(""),
			jobID, at,
		)
	})
}

// finish runs a terminal transition guarded on an assigned or started job and
// marks the live assignment completed.
func (r *JobRepo) finish(
	ctx context.Context,
	jobID int64,
	at time.Time,
	update func(pgx.Tx) (*model.Job, error),
) (*model.Job, error) {
	var out *model.Job
	err := pgxutil.WithTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		job, err := loadJob(ctx, tx, selectJobForUpdate, jobID)
		if err != nil {
			return err
		}
		if job.Status != model.JobStatusAssigned && job.Status != model.JobStatusStarted {
			return ErrInvalidTransition
		}
		if _, err := tx.Exec(ctx, `
			UPDATE translator_jobs SET completed_at = $2
			WHERE job_id = $1 AND cancel_at IS NULL AND completed_at IS NULL`,
			jobID, at,
		); err != nil {
			return fmt.Errorf("complete assignment: %w", err)
		}
		out, err = update(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "job finished", "job_id", jobID, "status", out.Status)
	return out, nil
}

// Reopen puts a withdrawn, timed out or no-show job back to pending. Any
// remaining assignment is cancelled.
func (r *JobRepo) Reopen(ctx context.Context, p model.ReopenParams) (*model.Job, error) {
	var out *model.Job
	err := pgxutil.WithTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		job, err := loadJob(ctx, tx, selectJobForUpdate, p.JobID)
		if err != nil {
			return err
		}
		switch job.Status {
		case model.JobStatusPending, model.JobStatusCompleted, model.JobStatusStarted:
			return ErrInvalidTransition
		}
		if err := releaseAssignment(ctx, tx, p.JobID, p.At); err != nil {
			return err
		}
		out, err = updateOne(ctx, tx, `
			UPDATE jobs
			SET status = 'pending', will_expire_at = $2, end_at = NULL, updated_at = $3
			WHERE id = $1
			RETURNING `+jobColumns(""),
			p.JobID, p.WillExpireAt, p.At,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "job reopened", "job_id", p.JobID)
	return out, nil
}

func releaseAssignment(ctx context.Context, tx pgx.Tx, jobID int64, at time.Time) error {
	if _, err := tx.Exec(ctx,
		`UPDATE translator_jobs SET cancel_at = $2 WHERE job_id = $1 AND cancel_at IS NULL`,
		jobID, at,
	); err != nil {
		return fmt.Errorf("release assignment: %w", err)
	}
	return nil
}

func setStatus(ctx context.Context, tx pgx.Tx, jobID int64, status model.JobStatus, at time.Time) (*model.Job, error) {
	return updateOne(ctx, tx,
		`UPDATE jobs SET status = $2, updated_at = $3 WHERE id = $1 RETURNING `+jobColumns(""),
		jobID, status, at,
	)
}

func updateOne(ctx context.Context, tx pgx.Tx, query string, args ...any) (*model.Job, error) {
	rows, err := tx.Query(ctx, query, args...)
	job, err := pgxutil.CollectOne[model.Job](rows, err, ErrJobNotFound)
	if err != nil && !errors.Is(err, ErrJobNotFound) {
		return nil, fmt.Errorf("update job: %w", err)
	}
	return job, err
}
