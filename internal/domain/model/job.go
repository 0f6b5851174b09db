// Package model defines the booking data types shared by the service, storage and transport layers.
package model

import (
	"fmt"
	"strings"
	"time"
)

// JobStatus is the lifecycle state of a booking.
type JobStatus string

const (
	JobStatusPending               JobStatus = "pending"
	JobStatusAssigned              JobStatus = "assigned"
	JobStatusStarted               JobStatus = "started"
	JobStatusCompleted             JobStatus = "completed"
	JobStatusWithdrawBefore24      JobStatus = "withdrawbefore24"
	JobStatusWithdrawAfter24       JobStatus = "withdrawafter24"
	JobStatusNotCarriedOutCustomer JobStatus = "not_carried_out_customer"
	JobStatusTimedOut              JobStatus = "timedout"
)

// Valid reports whether s is a known status.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusAssigned, JobStatusStarted, JobStatusCompleted,
		JobStatusWithdrawBefore24, JobStatusWithdrawAfter24, JobStatusNotCarriedOutCustomer,
		JobStatusTimedOut:
		return true
	default:
		return false
	}
}

// Active reports whether the job still awaits or is being carried out.
func (s JobStatus) Active() bool {
	return s == JobStatusPending || s == JobStatusAssigned || s == JobStatusStarted
}

// ParseJobStatus normalizes a status string and reports whether it is supported.
func ParseJobStatus(value string) (JobStatus, bool) {
	s := JobStatus(strings.ToLower(strings.TrimSpace(value)))
	if s.Valid() {
		return s, true
	}
	return "", false
}

// JobType classifies how a booking is paid for.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type JobType string

const (
	JobTypeRWS     JobType = "rws"
	JobTypeUnpaid  JobType = "unpaid"
	JobTypePaid    JobType = "paid"
	JobTypeUnknown JobType = "unknown"
)

// Valid returns true if the JobType is valid.
func (t JobType) Valid() bool {
	return t == JobTypeRWS || t == JobTypeUnpaid || t == JobTypePaid || t == JobTypeUnknown
}

// UnmarshalText implements encoding.TextUnmarshaler for query and env parsing.
// An empty value decodes as JobTypeUnknown.
func (t *JobType) UnmarshalText(text []byte) error {
	v := JobType(strings.ToLower(strings.TrimSpace(string(text))))
	if v == "" {
		v = JobTypeUnknown
	}
	if !v.Valid() {
		return fmt.Errorf("invalid JobType: %q", v)
	}
	*t = v
	return nil
}

// Job is a booking row.
type Job struct {
	ID                   int64      `json:"id"                         db:"id"`
	UserID               int64      `json:"user_id"                    db:"user_id"`
	FromLanguageID       int64      `json:"from_language_id"           db:"from_language_id"`
	Immediate            bool       `json:"immediate"                  db:"immediate"`
	Due                  time.Time  `json:"due"                        db:"due"`
	Duration             int        `json:"duration"                   db:"duration"`
	WillExpireAt         *time.Time `json:"will_expire_at,omitempty"   db:"will_expire_at"`
	CustomerPhoneType    bool       `json:"customer_phone_type"        db:"customer_phone_type"`
	CustomerPhysicalType bool       `json:"customer_physical_type"     db:"customer_physical_type"`
	JobType              JobType    `json:"job_type"                   db:"job_type"`
	Status               JobStatus  `json:"status"                     db:"status"`
	ByAdmin              bool       `json:"by_admin"                   db:"by_admin"`
	Flagged              bool       `json:"flagged"                    db:"flagged"`
	ManuallyHandled      bool       `json:"manually_handled"           db:"manually_handled"`
	AdminComments        string     `json:"admin_comments"             db:"admin_comments"`
	SessionTime          string     `json:"session_time"               db:"session_time"`
	Gender               string     `json:"gender"                     db:"gender"`
	Certified            string     `json:"certified"                  db:"certified"`
	Address              string     `json:"address"                    db:"address"`
	Instructions         string     `json:"instructions"               db:"instructions"`
	Town                 string     `json:"town"                       db:"town"`
	Reference            string     `json:"reference"                  db:"reference"`
	UserEmail            string     `json:"user_email"                 db:"user_email"`
	BCreatedAt           time.Time  `json:"b_created_at"               db:"b_created_at"`
	EndAt                *time.Time `json:"end_at,omitempty"           db:"end_at"`
	CreatedAt            time.Time  `json:"created_at"                 db:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"                 db:"updated_at"`
}

// Distance is the travel record attached to a job.
type Distance struct {
	JobID    int64  `json:"job_id"   db:"job_id"`
	Distance string `json:"distance" db:"distance"`
	Time     string `json:"time"     db:"time"`
}

// TranslatorJob links a job to the translator who accepted it.
type TranslatorJob struct {
	JobID       int64      `json:"job_id"                 db:"job_id"`
	UserID      int64      `json:"user_id"                db:"user_id"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CancelAt    *time.Time `json:"cancel_at,omitempty"    db:"cancel_at"`
	CreatedAt   time.Time  `json:"created_at"             db:"created_at"`
}

// TranslatorAssignment is the active translator relation with the user loaded.
type TranslatorAssignment struct {
	TranslatorJob
	User User `json:"user"`
}

// JobWithTranslator is a job with its distance and active translator relations.
type JobWithTranslator struct {
	Job
	Distance   *Distance             `json:"distance,omitempty"`
	Translator *TranslatorAssignment `json:"translator,omitempty"`
}
