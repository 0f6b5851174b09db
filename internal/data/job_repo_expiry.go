package data

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dtapi/booking-api/internal/data/pgxutil"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// Advisory lock namespace for expiry sweeps, taken with the two-argument
// pg_try_advisory_xact_lock so the HTTP replicas and the admin command never
// sweep the same batch.
const (
	advisoryLockExpiryMajor   = 2000
	advisoryLockExpiryPending = 1
)

// ExpirePending marks at most limit pending jobs whose will_expire_at has
// passed as timed out and returns them. When another sweeper holds the lock
// nothing is expired.
func (r *JobRepo) ExpirePending(ctx context.Context, now time.Time, limit int) ([]model.Job, error) {
	if limit <= 0 {
		return []model.Job{}, nil
	}
	query := `
		WITH due AS (
			SELECT id FROM jobs
			WHERE status = 'pending' AND will_expire_at IS NOT NULL AND will_expire_at <= $1
			ORDER BY will_expire_at ASC
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		UPDATE jobs j
		SET status = 'timedout', updated_at = $1
		FROM due
		WHERE j.id = due.id
		RETURNING ` + jobColumns("j")

	expired := []model.Job{}
	err := pgxutil.WithTx(ctx, r.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		var locked bool
		if err := tx.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock($1, $2)",
			advisoryLockExpiryMajor, advisoryLockExpiryPending,
		).Scan(&locked); err != nil {
			return fmt.Errorf("acquire advisory lock: %w", err)
		}
		if !locked {
			return nil
		}
		rows, qErr := tx.Query(ctx, query, now, limit)
		var e error
		expired, e = pgxutil.CollectAll[model.Job](rows, qErr)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("expire pending jobs: %w", err)
	}
	if len(expired) > 0 {
		r.logger.InfoContext(ctx, "expired pending jobs", "count", len(expired))
	}
	return expired, nil
}
