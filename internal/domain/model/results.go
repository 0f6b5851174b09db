package model

// Booking result statuses.
const (
	ResultSuccess = "success"
	ResultFail    = "fail"
)

// Booking result types for created jobs.
const (
	BookingTypeRegular   = "regular"
	BookingTypeImmediate = "immediate"
)

// BookingResult is the structured outcome of a booking operation. A fail
// result is a normal return value and carries the user-facing message.
type BookingResult struct {
	Status    string `json:"status"`
	ID        int64  `json:"id,omitempty"`
	Type      string `json:"type,omitempty"`
	Message   string `json:"message,omitempty"`
	FieldName string `json:"field_name,omitempty"`
	Job       any    `json:"job,omitempty"`
}

// Failed reports whether the result is a fail result.
func (r *BookingResult) Failed() bool { return r != nil && r.Status == ResultFail }

// Fail builds a fail result, naming the offending field when known.
func Fail(message string, field ...string) *BookingResult {
	r := &BookingResult{Status: ResultFail, Message: message}
	if len(field) > 0 {
		r.FieldName = field[0]
	}
	return r
}

// Succeeded builds a success result carrying message and the affected job.
func Succeeded(message string, job any) *BookingResult {
	return &BookingResult{Status: ResultSuccess, Message: message, Job: job}
}

// DistanceFeedOutcome is the message returned by a distance feed.
type DistanceFeedOutcome string

const (
	DistanceFeedNeedsComment DistanceFeedOutcome = "Please, add comment"
	DistanceFeedUpdated      DistanceFeedOutcome = "Record updated!"
	DistanceFeedNoChanges    DistanceFeedOutcome = "No changes requested"
)

// Ack is the acknowledgement returned by the resend operations.
type Ack struct {
	Success string `json:"success"`
}

// UsersJobs splits a user's active jobs into immediate and scheduled lists.
type UsersJobs struct {
	Emergency []Job  `json:"emergencyJobs"`
	Normal    []Job  `json:"normalJobs"`
	UserType  string `json:"usertype"`
}

// JobPage is one page of a job listing.
type JobPage struct {
	Data     []Job `json:"data"`
	Total    int   `json:"total"`
	Page     int   `json:"current_page"`
	PerPage  int   `json:"per_page"`
	LastPage int   `json:"last_page"`
}

// NewJobPage derives the last page from the total.
func NewJobPage(data []Job, total, page, perPage int) *JobPage {
	if data == nil {
		data = []Job{}
	}
	if page < 1 {
		page = 1
	}
	last := 1
	if perPage > 0 && total > 0 {
		last = (total + perPage - 1) / perPage
	}
	return &JobPage{Data: data, Total: total, Page: page, PerPage: perPage, LastPage: last}
}

// JobHistory is a user's finished jobs.
type JobHistory struct {
	*JobPage
	UserType string `json:"usertype"`
}
