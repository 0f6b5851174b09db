package core

import (
	"context"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
)

// Repository and gateway ports used by the booking services. Storage and
// transport adapters implement these; services depend only on them.

// JobRepository defines booking persistence and lifecycle transitions.
type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Job, error)
	// GetWithTranslator loads the job with its distance and active translator relations.
	GetWithTranslator(ctx context.Context, id int64) (*model.JobWithTranslator, error)
	Store(ctx context.Context, job *model.NewJob) (*model.Job, error)
	UpdateAdminFields(ctx context.Context, jobID int64, u model.AdminFieldsUpdate) error
	// UpdateDistance upserts the distance relation and returns the affected row count.
	UpdateDistance(ctx context.Context, jobID int64, u model.DistanceUpdate) (int64, error)
	UpdateJob(ctx context.Context, jobID int64, u model.JobUpdate) (*model.Job, error)
	Reopen(ctx context.Context, p model.ReopenParams) (*model.Job, error)
	AcceptJob(ctx context.Context, jobID, translatorID int64) (*model.Job, error)
	AcceptJobWithID(ctx context.Context, jobID, translatorID int64) (*model.JobWithTranslator, error)
	CancelJob(ctx context.Context, p model.CancelParams) (*model.Job, error)
	EndJob(ctx context.Context, p EndJobParams) (*model.Job, error)
	CustomerNotCall(ctx context.Context, jobID int64, at time.Time) (*model.Job, error)
	GetPotentialJobs(ctx context.Context, translatorID int64, jobType model.JobType) ([]model.Job, error)
	// GetUsersJobs returns active jobs owned by a customer or assigned to a translator.
	GetUsersJobs(ctx context.Context, userID int64, asTranslator bool) ([]model.Job, error)
	GetAll(ctx context.Context, f model.JobListFilter) (*model.JobPage, error)
	GetUsersJobsHistory(ctx context.Context, q HistoryQuery) (*model.JobPage, error)
	StoreJobEmail(ctx context.Context, u model.JobEmailUpdate) (*model.Job, error)
	// ExpirePending marks at most limit pending jobs past will_expire_at as timed out.
	ExpirePending(ctx context.Context, now time.Time, limit int) ([]model.Job, error)
}

// EndJobParams groups parameters for JobRepository.EndJob.
type EndJobParams struct {
	JobID       int64
	At          time.Time
	SessionTime string
}

// HistoryQuery groups parameters for JobRepository.GetUsersJobsHistory.
type HistoryQuery struct {
	UserID       int64
	AsTranslator bool
	Page         int
	PerPage      int
}

// UserRepository defines read access to accounts plus admin seeding.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// ListTranslatorsFor returns translators speaking languageID who may take jobType jobs.
	ListTranslatorsFor(ctx context.Context, languageID int64, jobType model.JobType) ([]model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
}

// JobCache caches shown jobs. A miss is (nil, nil).
type JobCache interface {
	GetJob(ctx context.Context, id int64) (*model.JobWithTranslator, error)
	SetJob(ctx context.Context, job *model.JobWithTranslator) error
	InvalidateJob(ctx context.Context, id int64) error
}

// TranslatorNotifier notifies translators about a job.
type TranslatorNotifier interface {
	// NotifyTranslators pushes data to the eligible translators selected by audience.
	NotifyTranslators(ctx context.Context, job *model.Job, data model.JobNotification, audience string) error
	SendSMSToTranslators(ctx context.Context, job *model.Job) error
}

// EventPublisher publishes booking lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, evt model.BookingEvent) error
}

// PushSender delivers a push notification through a gateway.
type PushSender interface {
	Push(ctx context.Context, msg model.PushMessage) error
}

// SMSSender delivers a text message through a gateway.
type SMSSender interface {
	SendSMS(ctx context.Context, msg model.SMSMessage) error
}
