package model

import "time"

// ConsumerType is the customer meta classification that selects the job type.
type ConsumerType string

const (
	ConsumerTypeRWS  ConsumerType = "rwsconsumer"
	ConsumerTypeNGO  ConsumerType = "ngo"
	ConsumerTypePaid ConsumerType = "paid"
)

// TranslatorType is the translator meta classification that selects potential jobs.
type TranslatorType string

const (
	TranslatorTypeProfessional TranslatorType = "professional"
	TranslatorTypeRWS          TranslatorType = "rwstranslator"
	TranslatorTypeVolunteer    TranslatorType = "volunteer"
)

// User is a customer, translator or administrator account.
// UserType holds the role identifier compared against the configured role IDs.
type User struct {
	ID             int64          `json:"id"              db:"id"`
	ExternalID     *string        `json:"-"               db:"external_id"`
	Name           string         `json:"name"            db:"name"`
	Email          string         `json:"email"           db:"email"`
	Phone          string         `json:"phone"           db:"phone"`
	UserType       string         `json:"user_type"       db:"user_type"`
	ConsumerType   ConsumerType   `json:"consumer_type"   db:"consumer_type"`
	TranslatorType TranslatorType `json:"translator_type" db:"translator_type"`
	Gender         string         `json:"gender"          db:"gender"`
	CreatedAt      time.Time      `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"      db:"updated_at"`
}

// UserLanguage is a language a translator works with.
type UserLanguage struct {
	UserID     int64 `json:"user_id" db:"user_id"`
	LanguageID int64 `json:"lang_id" db:"lang_id"`
}

// CreateUserRequest is used by the admin seeding command.
type CreateUserRequest struct {
	ExternalID     *string        `json:"external_id,omitempty"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	UserType       string         `json:"user_type"`
	ConsumerType   ConsumerType   `json:"consumer_type,omitempty"`
	TranslatorType TranslatorType `json:"translator_type,omitempty"`
	Gender         string         `json:"gender,omitempty"`
	LanguageIDs    []int64        `json:"language_ids,omitempty"`
}
