package config

import (
	"fmt"
	"strings"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses a fixed development identity.
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OAuth/OIDC configuration.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"booking-api"`
	ClientSecret string `env:"CLIENT_SECRET" envDefault:"booking-api"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email groups"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
	LogoutURL    string `env:"LOGOUT_URL"`
}

// DevAuthConfig is the identity used when AUTH_MODE=mock.
type DevAuthConfig struct {
	// Subject must match users.external_id of a seeded account.
	Subject string   `env:"SUBJECT" envDefault:"dev-user"`
	Name    string   `env:"NAME"    envDefault:"Dev User"`
	Email   string   `env:"EMAIL"   envDefault:"dev@example.com"`
	Groups  []string `env:"GROUPS"  envDefault:"admins"          envSeparator:";"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	OAuth   OAuthConfig   `envPrefix:"OAUTH_"`
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`

	// AdminGroup is the directory group granting the admin session role.
	AdminGroup string `env:"ADMIN_GROUP,required"`

	// UserGroup is the directory group granting the user session role.
	UserGroup string `env:"USER_GROUP,required"`
}

// RolesConfig holds the users.user_type identifiers that the booking core
// compares principals against.
type RolesConfig struct {
	AdminRoleID      string `env:"ADMIN_ROLE_ID"      envDefault:"1"`
	SuperAdminRoleID string `env:"SUPERADMIN_ROLE_ID" envDefault:"2"`
	CustomerRoleID   string `env:"CUSTOMER_ROLE_ID"   envDefault:"3"`
	TranslatorRoleID string `env:"TRANSLATOR_ROLE_ID" envDefault:"4"`
}

// IsAdmin reports whether userType is the admin or super admin role.
func (r RolesConfig) IsAdmin(userType string) bool {
	return userType != "" && (userType == r.AdminRoleID || userType == r.SuperAdminRoleID)
}

// IsCustomer reports whether userType is the customer role.
func (r RolesConfig) IsCustomer(userType string) bool {
	return userType != "" && userType == r.CustomerRoleID
}

// IsTranslator reports whether userType is the translator role.
func (r RolesConfig) IsTranslator(userType string) bool {
	return userType != "" && userType == r.TranslatorRoleID
}
