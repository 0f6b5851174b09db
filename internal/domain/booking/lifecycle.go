package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
)

const (
	MsgCancelTooLate     = "You can't cancel a booking within 24 hours of its start. Please call customer service."
	MsgNotCancellable    = "This booking can no longer be cancelled"
	MsgNotYourJob        = "This booking is not assigned to you"
	MsgCannotEnd         = "Only an assigned or started booking can be ended"
	MsgCannotReopen      = "This booking cannot be reopened"
	MsgReopenInPast      = "Can't reopen a booking that is due in the past"
	MsgNothingToUpdate   = "No changes requested"
	MsgAlreadyAccepted   = "This booking has already been accepted by another translator"
	MsgTranslatorBooked  = "You already have a booking at that time. The booking was not accepted."
	MsgNotEligible       = "You are not eligible for this booking"
	MsgAccepted          = "Booking accepted"
	MsgCancelledCustomer = "Booking cancelled"
	MsgReleased          = "Booking released back to other translators"
	MsgEnded             = "Booking completed"
	MsgCustomerNoShow    = "Booking marked as not carried out by the customer"
	MsgReopened          = "Booking reopened"
	MsgUpdated           = "Booking updated"
	MsgInvalidEmail      = "Please enter a valid email address"
	MsgEmailStored       = "Contact details saved and translators notified"
)

// cancelWindow separates the two withdrawal statuses and bounds translator cancellation.
const cancelWindow = 24 * time.Hour

// PlanCancellation decides the outcome of cancelling job. byCustomer selects
// the customer rules; otherwise the caller is the assigned translator.
func PlanCancellation(job *model.Job, byCustomer bool, now time.Time) (model.CancelParams, *model.BookingResult) {
	params := model.CancelParams{JobID: job.ID, At: now, ReleaseTranslator: true}
	lead := job.Due.Sub(now)

	if byCustomer {
		if job.Status != model.JobStatusPending && job.Status != model.JobStatusAssigned {
			return params, model.Fail(MsgNotCancellable)
		}
		if lead >= cancelWindow {
			params.Status = model.JobStatusWithdrawBefore24
		} else {
			params.Status = model.JobStatusWithdrawAfter24
		}
		return params, nil
	}

	if job.Status != model.JobStatusAssigned {
		return params, model.Fail(MsgNotCancellable)
	}
	if lead <= cancelWindow {
		return params, model.Fail(MsgCancelTooLate)
	}
	params.Status = model.JobStatusPending
	return params, nil
}

// CanEnd reports whether a job in status s may be completed.
func CanEnd(s model.JobStatus) bool {
	return s == model.JobStatusAssigned || s == model.JobStatusStarted
}

// SessionTime formats the elapsed time between due and end as HH:MM:SS.
func SessionTime(due, end time.Time) string {
	d := end.Sub(due)
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d / time.Hour)
	m := int(d%time.Hour) / int(time.Minute)
	s := int(d%time.Minute) / int(time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// PlanReopen decides whether job can be put back to pending and computes its new expiry.
func PlanReopen(job *model.Job, now time.Time) (model.ReopenParams, *model.BookingResult) {
	params := model.ReopenParams{JobID: job.ID, At: now}
	switch job.Status {
	case model.JobStatusPending, model.JobStatusCompleted, model.JobStatusStarted:
		return params, model.Fail(MsgCannotReopen)
	}
	if !job.Due.After(now) {
		return params, model.Fail(MsgReopenInPast)
	}
	params.WillExpireAt = WillExpireAt(job.Due, now)
	return params, nil
}

// PlanJobUpdate normalizes a partial update against the stored job.
func PlanJobUpdate(
	job *model.Job,
	req model.UpdateJobRequest,
	now time.Time,
	loc *time.Location,
) (model.JobUpdate, *model.BookingResult) {
	var u model.JobUpdate

	if req.FromLanguageID != nil {
		if *req.FromLanguageID <= 0 {
			return u, model.Fail(MsgFillAllFields, "from_language_id")
		}
		v := req.FromLanguageID.Int64()
		u.FromLanguageID = &v
	}

	if req.DueDate != nil || req.DueTime != nil {
		if req.DueDate == nil || strings.TrimSpace(*req.DueDate) == "" {
			return u, model.Fail(MsgFillAllFields, "due_date")
		}
		if req.DueTime == nil || strings.TrimSpace(*req.DueTime) == "" {
			return u, model.Fail(MsgFillAllFields, "due_time")
		}
		due, err := ParseDue(*req.DueDate, *req.DueTime, loc)
		if err != nil {
			return u, model.Fail(MsgInvalidDue, "due_date")
		}
		if !due.After(now) {
			return u, model.Fail(MsgBookingInPast)
		}
		expires := WillExpireAt(due, job.BCreatedAt)
		u.Due = &due
		u.WillExpireAt = &expires
	}

	if req.Duration != nil {
		if *req.Duration <= 0 {
			return u, model.Fail(MsgFillAllFields, "duration")
		}
		d := int(*req.Duration)
		u.Duration = &d
	}

	u.AdminComments = trimmed(req.AdminComments)
	u.Reference = trimmed(req.Reference)
	u.Address = trimmed(req.Address)
	u.Instructions = trimmed(req.Instructions)
	u.Town = trimmed(req.Town)

	if u.Empty() {
		return u, model.Fail(MsgNothingToUpdate)
	}
	return u, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

// SplitUsersJobs separates immediate jobs from scheduled ones.
func SplitUsersJobs(jobs []model.Job, userType string) *model.UsersJobs {
	out := &model.UsersJobs{Emergency: []model.Job{}, Normal: []model.Job{}, UserType: userType}
	for _, j := range jobs {
		if j.Immediate {
			out.Emergency = append(out.Emergency, j)
		} else {
			out.Normal = append(out.Normal, j)
		}
	}
	return out
}
