// Package auth holds the identity and session types of the login flow.
package auth

import "time"

// Role is the session gate derived from directory groups. Booking
// permissions come from the account's user_type, not from Role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleGuest Role = "guest"
)

// Identity is the principal returned by an identity provider.
type Identity struct {
	// Subject is the stable provider identifier, matched against users.external_id.
	Subject   string
	Name      string
	Email     string
	Groups    []string
	ExpiresAt time.Time
}

// Session is the server-side record of a signed-in account.
type Session struct {
	ID string `json:"id"`
	// AccountID is the users.id the identity resolved to.
	AccountID int64     `json:"account_id"`
	Subject   string    `json:"subject"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsGuest reports whether the session carries no directory role.
func (s Session) IsGuest() bool { return s.Role == RoleGuest || s.Role == "" }

// Expired reports whether the session has lapsed at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
