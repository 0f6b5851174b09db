// Package metrics emits the booking lifecycle metrics.
package metrics

import (
	"time"

	obserrors "github.com/dtapi/booking-api/internal/observability/errors"
	"github.com/dtapi/booking-api/internal/observability/statsd"
)

// Result tags.
const (
	ResultSuccess = "success"
	// ResultRejected marks a business-rule refusal returned to the client as a fail result.
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Transition tags, one per booking operation that changes a job.
const (
	TransitionCreated     = "created"
	TransitionUpdated     = "updated"
	TransitionAccepted    = "accepted"
	TransitionCancelled   = "cancelled"
	TransitionEnded       = "ended"
	TransitionNoShow      = "customer_not_call"
	TransitionReopened    = "reopened"
	TransitionTimedOut    = "timedout"
	TransitionDistance    = "distance_feed"
	TransitionNotified    = "notified"
	TransitionSMSNotified = "sms_notified"
)

// Booking describes one lifecycle step.
type Booking struct {
	Transition string
	JobType    string
	Result     string
	// Immediate is tagged when the job is known.
	Immediate *bool
	Duration  time.Duration
	Err       error
}

// EmitBooking counts the transition as booking.transition and, when a
// duration is set, times it as booking.latency.
func EmitBooking(sink statsd.Sink, m Booking) {
	if sink == nil {
		return
	}
	tags := map[string]string{
		"transition": m.Transition,
		"result":     m.Result,
	}
	if m.JobType != "" {
		tags["job_type"] = m.JobType
	}
	if m.Immediate != nil {
		tags["immediate"] = boolTag(*m.Immediate)
	}
	if m.Result == ResultError {
		if class := obserrors.Classify(m.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("booking.transition", 1, tags)
	if m.Duration > 0 {
		sink.Timing("booking.latency", m.Duration, tags)
	}
}

// ResultFor derives the result tag from an operation outcome.
func ResultFor(rejected bool, err error) string {
	switch {
	case err != nil:
		return ResultError
	case rejected:
		return ResultRejected
	default:
		return ResultSuccess
	}
}

func boolTag(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
