// Package booking holds the pure booking rules: input validation, due date
// and expiry derivation, lifecycle transition planning and notification
// payloads. Nothing here performs I/O.
package booking

import (
	"strings"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
)

// Fail messages returned to clients.
const (
	MsgTranslatorCannotCreate = "Translator cannot create booking"
	MsgFillAllFields          = "You must fill in all fields"
	MsgBookingInPast          = "Can't create booking in the past"
	MsgInvalidDue             = "Invalid due date or time"
)

const (
	// ImmediateLead is how far ahead an immediate booking is due.
	ImmediateLead = 5 * time.Minute
	// DueLayout is the format of due_date and due_time joined by a space.
	// Month, day and hour may omit the leading zero.
	DueLayout = "1/2/2006 15:04"
)

// CheckRequired reports the first missing required field of a booking.
// Scheduled bookings additionally need due_date, due_time and duration, in that order.
func CheckRequired(req model.StoreJobRequest) *model.BookingResult {
	if req.FromLanguageID == nil {
		return model.Fail(MsgFillAllFields, "from_language_id")
	}
	if req.Immediate.Bool() {
		return nil
	}
	switch {
	case strings.TrimSpace(req.DueDate) == "":
		return model.Fail(MsgFillAllFields, "due_date")
	case strings.TrimSpace(req.DueTime) == "":
		return model.Fail(MsgFillAllFields, "due_time")
	case req.Duration == 0:
		return model.Fail(MsgFillAllFields, "duration")
	}
	return nil
}

// ParseDue parses a scheduled due moment in loc.
func ParseDue(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DueLayout, strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
}

// ResolveDue returns the due moment and booking type for a request that
// passed CheckRequired. A scheduled due moment must be strictly after now.
func ResolveDue(req model.StoreJobRequest, now time.Time, loc *time.Location) (time.Time, string, *model.BookingResult) {
	if req.Immediate.Bool() {
		return now.Add(ImmediateLead), model.BookingTypeImmediate, nil
	}
	due, err := ParseDue(req.DueDate, req.DueTime, loc)
	if err != nil {
		return time.Time{}, model.BookingTypeRegular, model.Fail(MsgInvalidDue, "due_date")
	}
	if !due.After(now) {
		return time.Time{}, model.BookingTypeRegular, model.Fail(MsgBookingInPast)
	}
	return due, model.BookingTypeRegular, nil
}

// WillExpireAt derives when an unaccepted booking expires from how far
// ahead of its creation it is due.
func WillExpireAt(due, created time.Time) time.Time {
	lead := due.Sub(created)
	switch {
	case lead <= 90*time.Minute:
		return due
	case lead <= 24*time.Hour:
		return created.Add(90 * time.Minute)
	case lead <= 72*time.Hour:
		return created.Add(16 * time.Hour)
	default:
		return due.Add(-48 * time.Hour)
	}
}

// JobTypeForConsumer maps a customer's consumer type to the job type.
func JobTypeForConsumer(ct model.ConsumerType) model.JobType {
	switch ct {
	case model.ConsumerTypeRWS:
		return model.JobTypeRWS
	case model.ConsumerTypeNGO:
		return model.JobTypeUnpaid
	case model.ConsumerTypePaid:
		return model.JobTypePaid
	default:
		return model.JobTypeUnknown
	}
}

// JobTypeForTranslator maps a translator's type to the jobs they may take.
func JobTypeForTranslator(tt model.TranslatorType) model.JobType {
	switch tt {
	case model.TranslatorTypeProfessional:
		return model.JobTypePaid
	case model.TranslatorTypeRWS:
		return model.JobTypeRWS
	default:
		return model.JobTypeUnpaid
	}
}

// PrepareNewJob validates a booking request from customer and returns the
// normalized job and its response type. A non-nil fail result means nothing
// should be stored.
func PrepareNewJob(
	customer *model.User,
	req model.StoreJobRequest,
	now time.Time,
	loc *time.Location,
) (*model.NewJob, string, *model.BookingResult) {
	if fail := CheckRequired(req); fail != nil {
		return nil, "", fail
	}

	due, kind, fail := ResolveDue(req, now, loc)
	if fail != nil {
		return nil, kind, fail
	}

	job := &model.NewJob{
		UserID:               customer.ID,
		FromLanguageID:       req.FromLanguageID.Int64(),
		Immediate:            req.Immediate.Bool(),
		Due:                  due,
		Duration:             int(req.Duration),
		WillExpireAt:         WillExpireAt(due, now),
		CustomerPhoneType:    bool(req.CustomerPhoneType),
		CustomerPhysicalType: bool(req.CustomerPhysicalType),
		JobType:              JobTypeForConsumer(customer.ConsumerType),
		ByAdmin:              req.ByAdmin.Bool(),
		Gender:               strings.TrimSpace(req.Gender),
		Certified:            strings.TrimSpace(req.Certified),
		Address:              strings.TrimSpace(req.Address),
		Instructions:         strings.TrimSpace(req.Instructions),
		Town:                 strings.TrimSpace(req.Town),
		Reference:            strings.TrimSpace(req.Reference),
		BCreatedAt:           now,
	}
	if job.Immediate {
		job.CustomerPhoneType = true
	}
	return job, kind, nil
}
