package model

import "time"

// StoreJobRequest is the booking creation payload.
type StoreJobRequest struct {
	FromLanguageID       *FlexInt `json:"from_language_id"`
	Immediate            Flag     `json:"immediate"`
	DueDate              string   `json:"due_date"`
	DueTime              string   `json:"due_time"`
	Duration             FlexInt  `json:"duration"`
	CustomerPhoneType    Presence `json:"customer_phone_type"`
	CustomerPhysicalType Presence `json:"customer_physical_type"`
	ByAdmin              Flag     `json:"by_admin"`
	Gender               string   `json:"gender"`
	Certified            string   `json:"certified"`
	Address              string   `json:"address"`
	Instructions         string   `json:"instructions"`
	Town                 string   `json:"town"`
	Reference            string   `json:"reference"`
}

// NewJob is a validated booking ready to be stored.
type NewJob struct {
	UserID               int64
	FromLanguageID       int64
	Immediate            bool
	Due                  time.Time
	Duration             int
	WillExpireAt         time.Time
	CustomerPhoneType    bool
	CustomerPhysicalType bool
	JobType              JobType
	ByAdmin              bool
	Gender               string
	Certified            string
	Address              string
	Instructions         string
	Town                 string
	Reference            string
	BCreatedAt           time.Time
}

// UpdateJobRequest is a partial booking update. Nil fields are left unchanged.
type UpdateJobRequest struct {
	FromLanguageID *FlexInt `json:"from_language_id,omitempty"`
	DueDate        *string  `json:"due_date,omitempty"`
	DueTime        *string  `json:"due_time,omitempty"`
	Duration       *FlexInt `json:"duration,omitempty"`
	AdminComments  *string  `json:"admin_comments,omitempty"`
	Reference      *string  `json:"reference,omitempty"`
	Address        *string  `json:"address,omitempty"`
	Instructions   *string  `json:"instructions,omitempty"`
	Town           *string  `json:"town,omitempty"`
}

// JobUpdate is the normalized column set for an update.
type JobUpdate struct {
	FromLanguageID *int64
	Due            *time.Time
	WillExpireAt   *time.Time
	Duration       *int
	AdminComments  *string
	Reference      *string
	Address        *string
	Instructions   *string
	Town           *string
}

// Empty reports whether the update changes nothing.
func (u JobUpdate) Empty() bool {
	return u.FromLanguageID == nil && u.Due == nil && u.Duration == nil && u.AdminComments == nil &&
		u.Reference == nil && u.Address == nil && u.Instructions == nil && u.Town == nil
}

// DistanceFeedRequest carries distance feedback and admin bookkeeping for a job.
type DistanceFeedRequest struct {
	JobID           FlexInt `json:"jobid"`
	Distance        string  `json:"distance"`
	Time            string  `json:"time"`
	SessionTime     string  `json:"session_time"`
	AdminComment    string  `json:"admincomment"`
	Flagged         Flag    `json:"flagged"`
	ManuallyHandled Flag    `json:"manually_handled"`
	ByAdmin         Flag    `json:"by_admin"`
}

// AdminFieldsUpdate is the admin bookkeeping written by a distance feed.
type AdminFieldsUpdate struct {
	AdminComments   string
	Flagged         bool
	SessionTime     string
	ManuallyHandled bool
	ByAdmin         bool
}

// DistanceUpdate is the distance relation written by a distance feed.
type DistanceUpdate struct {
	Distance string
	Time     string
}

// JobRef identifies a job in lifecycle payloads. Both the legacy "jobid" and
// "job_id" keys are accepted.
type JobRef struct {
	JobID       FlexInt `json:"job_id"`
	LegacyJobID FlexInt `json:"jobid"`
}

// ID returns whichever identifier was supplied.
func (r JobRef) ID() int64 {
	if r.JobID != 0 {
		return r.JobID.Int64()
	}
	return r.LegacyJobID.Int64()
}

// ReopenRequest reopens a job on behalf of a user.
type ReopenRequest struct {
	JobRef
	UserID FlexInt `json:"userid"`
}

// ImmediateJobEmailRequest records contact details for an immediate job.
type ImmediateJobEmailRequest struct {
	JobRef
	UserEmail    string `json:"user_email"`
	Reference    string `json:"reference"`
	Address      string `json:"address"`
	Instructions string `json:"instructions"`
	Town         string `json:"town"`
}

// JobEmailUpdate is the normalized immediate-job contact update.
type JobEmailUpdate struct {
	JobID        int64
	UserEmail    string
	Reference    string
	Address      string
	Instructions string
	Town         string
}

// CancelParams is a planned cancellation.
type CancelParams struct {
	JobID             int64
	Status            JobStatus
	ReleaseTranslator bool
	At                time.Time
}

// ReopenParams is a planned reopen.
type ReopenParams struct {
	JobID        int64
	WillExpireAt time.Time
	At           time.Time
}

// JobListFilter filters the admin job listing.
type JobListFilter struct {
	IDs             []int64
	LanguageIDs     []int64
	Statuses        []JobStatus
	JobTypes        []JobType
	CustomerEmail   string
	TranslatorEmail string
	Immediate       *bool
	Flagged         *bool
	From            *time.Time
	To              *time.Time
	Page            int
	PerPage         int
}

// Offset returns the row offset for the page.
func (f JobListFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.PerPage
}
