package booking

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/dtapi/booking-api/internal/domain/model"
)

// JobToData builds the translator notification payload for job. Dates are
// rendered in loc.
func JobToData(job *model.Job, loc *time.Location) model.JobNotification {
	if loc == nil {
		loc = time.UTC
	}
	due := job.Due.In(loc)
	return model.JobNotification{
		JobID:                job.ID,
		FromLanguageID:       job.FromLanguageID,
		Immediate:            job.Immediate,
		Duration:             job.Duration,
		Status:               job.Status,
		Gender:               job.Gender,
		Certified:            job.Certified,
		Due:                  job.Due,
		DueDate:              due.Format("2006-01-02"),
		DueTime:              due.Format("15:04:05"),
		JobType:              job.JobType,
		CustomerPhoneType:    job.CustomerPhoneType,
		CustomerPhysicalType: job.CustomerPhysicalType,
		CustomerTown:         job.Town,
		JobFor:               jobFor(job.Gender, job.Certified),
	}
}

func jobFor(gender, certified string) []string {
	out := []string{}
	switch strings.ToLower(gender) {
	case "male":
		out = append(out, "Male")
	case "female":
		out = append(out, "Female")
	}
	switch c := strings.ToLower(certified); c {
	case "":
	case "both":
		out = append(out, "normal", "certified")
	case "yes":
		out = append(out, "certified")
	default:
		out = append(out, c)
	}
	return out
}

// ErrInvalidEmail is returned for addresses that cannot receive job mail.
var ErrInvalidEmail = errors.New("invalid email address")

// ValidateJobEmail checks that addr is a single address on a registrable ICANN domain.
func ValidateJobEmail(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return "", ErrInvalidEmail
	}
	at := strings.LastIndexByte(addr, '@')
	domain := strings.ToLower(strings.TrimSuffix(addr[at+1:], "."))
	if _, err := publicsuffix.EffectiveTLDPlusOne(domain); err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidEmail, domain)
	}
	if _, icann := publicsuffix.PublicSuffix(domain); !icann {
		return "", fmt.Errorf("%w: unlisted suffix for %s", ErrInvalidEmail, domain)
	}
	return addr, nil
}

// Push notification titles.
const (
	PushTitle          = "New booking available"
	CancelledPushTitle = "Booking cancelled"
)

// PushTitleFor returns the push title for a notification kind.
func PushTitleFor(kind model.NotificationKind) string {
	if kind == model.NotificationJobCancelled {
		return CancelledPushTitle
	}
	return PushTitle
}

// PushText summarises a notification payload for the push body.
func PushText(data model.JobNotification) string {
	kind := "phone"
	if data.CustomerPhysicalType && !data.CustomerPhoneType {
		kind = "on-site"
	}
	text := fmt.Sprintf("%s %s, %d min %s booking", data.DueDate, data.DueTime[:min(5, len(data.DueTime))], data.Duration, kind)
	if data.Immediate {
		text = "Immediate: " + text
	}
	if data.Kind == model.NotificationJobCancelled {
		text = "Cancelled by customer: " + text
	}
	return text
}

// SMSText is the text message sent to translators about job. Dates are rendered in loc.
func SMSText(job *model.Job, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	due := job.Due.In(loc).Format("2006-01-02 15:04")
	if job.CustomerPhysicalType && job.Town != "" {
		return fmt.Sprintf("New on-site booking in %s on %s (%d min). Log in to accept: booking #%d.",
			job.Town, due, job.Duration, job.ID)
	}
	return fmt.Sprintf("New phone booking on %s (%d min). Log in to accept: booking #%d.", due, job.Duration, job.ID)
}
