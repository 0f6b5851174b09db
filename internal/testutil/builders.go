package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
)

var seq atomic.Int64

// UserBuilder builds CreateUserRequest fixtures with unique emails.
type UserBuilder struct {
	req model.CreateUserRequest
}

// NewCustomer starts a customer fixture with the given role identifier.
func NewCustomer(roleID string) *UserBuilder {
	n := seq.Add(1)
	return &UserBuilder{req: model.CreateUserRequest{
		Name:         fmt.Sprintf("Customer %d", n),
		Email:        fmt.Sprintf("customer%d@example.com", n),
		UserType:     roleID,
		ConsumerType: model.ConsumerTypePaid,
	}}
}

// NewTranslator starts a translator fixture speaking languages.
func NewTranslator(roleID string, languages ...int64) *UserBuilder {
	n := seq.Add(1)
	return &UserBuilder{req: model.CreateUserRequest{
		Name:           fmt.Sprintf("Translator %d", n),
		Email:          fmt.Sprintf("translator%d@example.com", n),
		UserType:       roleID,
		TranslatorType: model.TranslatorTypeProfessional,
		LanguageIDs:    languages,
	}}
}

// WithConsumerType sets the customer classification.
func (b *UserBuilder) WithConsumerType(ct model.ConsumerType) *UserBuilder {
	b.req.ConsumerType = ct
	return b
}

// WithTranslatorType sets the translator classification.
func (b *UserBuilder) WithTranslatorType(tt model.TranslatorType) *UserBuilder {
	b.req.TranslatorType = tt
	return b
}

// WithGender sets the gender.
func (b *UserBuilder) WithGender(g string) *UserBuilder {
	b.req.Gender = g
	return b
}

// WithExternalID sets the identity provider subject.
func (b *UserBuilder) WithExternalID(id string) *UserBuilder {
	b.req.ExternalID = &id
	return b
}

// WithEmail overrides the generated email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.req.Email = email
	return b
}

// Build returns the request.
func (b *UserBuilder) Build() model.CreateUserRequest {
	return b.req
}

// JobBuilder builds NewJob fixtures due one week after TestTime.
type JobBuilder struct {
	job model.NewJob
}

// NewJob starts a pending paid job for customerID.
func NewJob(customerID, languageID int64) *JobBuilder {
	created := TestTime()
	due := created.Add(7 * 24 * time.Hour)
	return &JobBuilder{job: model.NewJob{
		UserID:         customerID,
		FromLanguageID: languageID,
		Due:            due,
		Duration:       60,
		WillExpireAt:   due.Add(-48 * time.Hour),
		JobType:        model.JobTypePaid,
		BCreatedAt:     created,
	}}
}

// DueAt sets the due time and keeps the expiry two days ahead of it.
func (b *JobBuilder) DueAt(due time.Time) *JobBuilder {
	b.job.Due = due
	b.job.WillExpireAt = due.Add(-48 * time.Hour)
	return b
}

// ExpiresAt overrides the expiry.
func (b *JobBuilder) ExpiresAt(at time.Time) *JobBuilder {
	b.job.WillExpireAt = at
	return b
}

// WithDuration sets the duration in minutes.
func (b *JobBuilder) WithDuration(minutes int) *JobBuilder {
	b.job.Duration = minutes
	return b
}

// WithJobType sets the job type.
func (b *JobBuilder) WithJobType(jt model.JobType) *JobBuilder {
	b.job.JobType = jt
	return b
}

// WithGender sets the requested translator gender.
func (b *JobBuilder) WithGender(g string) *JobBuilder {
	b.job.Gender = g
	return b
}

// Immediate marks the job immediate.
func (b *JobBuilder) Immediate() *JobBuilder {
	b.job.Immediate = true
	b.job.CustomerPhoneType = true
	return b
}

// Build returns the job.
func (b *JobBuilder) Build() *model.NewJob {
	j := b.job
	return &j
}
