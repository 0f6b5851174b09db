package model

import "time"

// JobNotification is the payload pushed to translators about a job.
type JobNotification struct {
	JobID                int64     `json:"job_id"`
	FromLanguageID       int64     `json:"from_language_id"`
	Immediate            bool      `json:"immediate"`
	Duration             int       `json:"duration"`
	Status               JobStatus `json:"status"`
	Gender               string    `json:"gender,omitempty"`
	Certified            string    `json:"certified,omitempty"`
	Due                  time.Time `json:"due"`
	DueDate              string    `json:"due_date"`
	DueTime              string    `json:"due_time"`
	JobType              JobType   `json:"job_type"`
	CustomerPhoneType    bool      `json:"customer_phone_type"`
	CustomerPhysicalType bool      `json:"customer_physical_type"`
	CustomerTown         string    `json:"customer_town,omitempty"`
	JobFor               []string  `json:"job_for"`

	// Kind is empty for a job that is open to translators.
	Kind NotificationKind `json:"kind,omitempty"`
}

// NotificationKind tells translators why they are being notified.
type NotificationKind string

// Notification kinds.
const (
	NotificationJobAvailable NotificationKind = ""
	NotificationJobCancelled NotificationKind = "job_cancelled"
)

// AudienceAll selects every eligible translator.
const AudienceAll = "*"

// Booking event names published on the event bus.
const (
	EventJobCreated   = "job.created"
	EventJobUpdated   = "job.updated"
	EventJobAccepted  = "job.accepted"
	EventJobCancelled = "job.cancelled"
	EventJobEnded     = "job.ended"
	EventJobReopened  = "job.reopened"
	EventJobNoShow    = "job.customer_not_call"
	EventJobTimedOut  = "job.timedout"
)

// BookingEvent is a lifecycle event describing a job state change.
type BookingEvent struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	JobID      int64     `json:"job_id"`
	Status     JobStatus `json:"status"`
	JobType    JobType   `json:"job_type"`
	ActorID    int64     `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PushMessage is a push notification addressed to one translator.
type PushMessage struct {
	UserID  int64           `json:"user_id"`
	Title   string          `json:"title"`
	Body    string          `json:"body"`
	Payload JobNotification `json:"payload"`
}

// SMSMessage is a text message addressed to one phone number.
type SMSMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}
