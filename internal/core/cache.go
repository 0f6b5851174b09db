// Package core defines the ports of the booking API and the small services built directly on them.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
)

// CacheRepository defines the interface for caching operations.
type CacheRepository interface {
	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns nil when the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete returns true if the key was deleted.
	Delete(ctx context.Context, key string) (bool, error)

	Health(ctx context.Context) error
}

// JobCacheService stores shown jobs as JSON in a CacheRepository.
type JobCacheService struct {
	cache  CacheRepository
	ttl    time.Duration
	logger *slog.Logger
}

// JobCacheServiceOptions bundles dependencies for NewJobCacheService.
type JobCacheServiceOptions struct {
	Cache  CacheRepository
	TTL    time.Duration
	Logger *slog.Logger
}

// NewJobCacheService creates a new JobCacheService.
func NewJobCacheService(opts JobCacheServiceOptions) *JobCacheService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &JobCacheService{cache: opts.Cache, ttl: opts.TTL, logger: logger.With("component", "job_cache")}
}

// GetJob returns the cached job or nil on a miss. Undecodable entries are logged and count as a miss.
func (s *JobCacheService) GetJob(ctx context.Context, id int64) (*model.JobWithTranslator, error) {
	raw, err := s.cache.Get(ctx, jobKey(id))
	if err != nil {
		return nil, fmt.Errorf("get cached job: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var job model.JobWithTranslator
	if err := json.Unmarshal(raw, &job); err != nil {
		s.logger.WarnContext(ctx, "dropping undecodable cached job", "job_id", id, "error", err)
		return nil, nil //nolint:nilerr // stale encoding is treated as a miss
	}
	return &job, nil
}

// SetJob caches job for the configured TTL.
func (s *JobCacheService) SetJob(ctx context.Context, job *model.JobWithTranslator) error {
	if job == nil || job.ID == 0 {
		return nil
	}
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	return s.cache.Set(ctx, jobKey(job.ID), raw, s.ttl)
}

// InvalidateJob drops the cached copy of a job.
func (s *JobCacheService) InvalidateJob(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}
	_, err := s.cache.Delete(ctx, jobKey(id))
	return err
}

func jobKey(id int64) string {
	return "booking:job:" + strconv.FormatInt(id, 10)
}
