package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/dtapi/booking-api/internal/adapters/expiry"
	"github.com/dtapi/booking-api/internal/adapters/natsbus"
	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/data"
	"github.com/dtapi/booking-api/internal/devseed"
	"github.com/dtapi/booking-api/internal/migrate"
)

func (cmdCtx *commandContext) seed(ctx context.Context, db *sql.DB) error {
	users := data.NewUserRepo(db, data.UserRepoConfig{
		TranslatorRoleID: cmdCtx.Config.Roles.TranslatorRoleID,
		Logger:           cmdCtx.Logger,
	})
	return devseed.Run(ctx, devseed.Options{
		Users:      users,
		Roles:      cmdCtx.Config.Roles,
		DevSubject: cmdCtx.Config.Auth.DevAuth.Subject,
		Logger:     cmdCtx.Logger,
	})
}

func runMigrateStatus(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags("migrate-status", args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		pending, pendErr := migrate.Pending(ctx, db)
		if pendErr != nil {
			return fmt.Errorf("list pending migrations: %w", pendErr)
		}
		if len(pending) == 0 {
			return writeln(os.Stdout, "Schema is up to date.")
		}
		if err := writef(os.Stdout, "%d pending migration(s):\n", len(pending)); err != nil {
			return err
		}
		for _, name := range pending {
			if err := writef(os.Stdout, "  %s\n", name); err != nil {
				return err
			}
		}
		return nil
	})
}

// runExpireJobs performs one expiry sweep. Redis and NATS are used when configured
// so cached views and subscribers see the timeouts too.
func runExpireJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseExpireFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	db, redisClient, err := connectInfra(ctx, cmdCtx.Logger, &cmdCtx.Config)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeInfra(db, redisClient); closeErr != nil {
			cmdCtx.Logger.Warn("close infrastructure failed", "error", closeErr)
		}
	}()

	expiryCfg := cmdCtx.Config.Expiry
	if opts.BatchSize > 0 {
		expiryCfg.BatchSize = opts.BatchSize
	}
	runnerOpts := expiry.RunnerOptions{DB: db, Config: expiryCfg, Logger: cmdCtx.Logger}
	if redisClient != nil && cmdCtx.Config.Booking.CacheTTL > 0 {
		runnerOpts.Cache = core.NewJobCacheService(core.JobCacheServiceOptions{
			Cache:  data.NewRedisCacheRepo(data.RedisCacheOptions{Client: redisClient}),
			TTL:    cmdCtx.Config.Booking.CacheTTL,
			Logger: cmdCtx.Logger,
		})
	}
	if cmdCtx.Config.Events.Enabled {
		pub, pubErr := natsbus.Connect(ctx, cmdCtx.Config.Events, cmdCtx.Logger)
		if pubErr != nil {
			cmdCtx.Logger.Warn("publishing disabled for this sweep", "error", pubErr)
		} else {
			runnerOpts.Events = pub
			defer func() {
				if closeErr := pub.Close(); closeErr != nil {
					cmdCtx.Logger.Warn("nats close failed", "error", closeErr)
				}
			}()
		}
	}

	runner, err := expiry.NewRunner(runnerOpts)
	if err != nil {
		return err
	}

	started := time.Now()
	count, err := runner.SweepOnce(ctx)
	if err != nil {
		return fmt.Errorf("expire jobs after %d timed out: %w", count, err)
	}
	return writef(os.Stdout, "Timed out %d pending job(s) in %s.\n", count, time.Since(started).Round(time.Millisecond))
}

type invalidateOptions struct {
	JobIDs []int64
}

func parseInvalidateFlags(args []string) (invalidateOptions, error) {
	fs := flag.NewFlagSet("invalidate-job", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var raw string
	fs.StringVar(&raw, "job-id", "", "Comma separated job ids to drop from the cache")
	if err := fs.Parse(args); err != nil {
		return invalidateOptions{}, err
	}

	var opts invalidateOptions
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			return invalidateOptions{}, fmt.Errorf("invalid job id %q", part)
		}
		opts.JobIDs = append(opts.JobIDs, id)
	}
	if len(opts.JobIDs) == 0 {
		return invalidateOptions{}, errors.New("--job-id is required")
	}
	return opts, nil
}

func runInvalidateJob(cmdCtx *commandContext, args []string) error {
	opts, err := parseInvalidateFlags(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, 30*time.Second)
	defer cancel()

	client, err := maybeConnectRedis(ctx, cmdCtx.Logger, &cmdCtx.Config.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	cache := core.NewJobCacheService(core.JobCacheServiceOptions{
		Cache:  data.NewRedisCacheRepo(data.RedisCacheOptions{Client: client}),
		Logger: cmdCtx.Logger,
	})
	for _, id := range opts.JobIDs {
		if invErr := cache.InvalidateJob(ctx, id); invErr != nil {
			return fmt.Errorf("invalidate job %d: %w", id, invErr)
		}
		cmdCtx.Logger.Info("job cache entry dropped", "job_id", id)
	}
	return nil
}
