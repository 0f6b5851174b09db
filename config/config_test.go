package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - http",
			input:    "http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{
			name:     "single service - expirer",
			input:    "expirer",
			expected: map[ServiceMode]bool{ServiceModeExpirer: true},
		},
		{
			name:  "services with spaces",
			input: " http , expirer ",
			expected: map[ServiceMode]bool{
				ServiceModeHTTP:    true,
				ServiceModeExpirer: true,
			},
		},
		{
			name:     "duplicate services",
			input:    "http,http",
			expected: map[ServiceMode]bool{ServiceModeHTTP: true},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only spaces and commas", input: " , , ", expectError: true},
		{name: "invalid service name", input: "http,scheduler", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestConfig_ServiceEnabledMethods(t *testing.T) {
	tests := []struct {
		services        string
		expectedHTTP    bool
		expectedExpirer bool
	}{
		{services: "http", expectedHTTP: true},
		{services: "expirer", expectedExpirer: true},
		{services: "http,expirer", expectedHTTP: true, expectedExpirer: true},
		{services: "invalid-service"},
	}

	for _, tt := range tests {
		t.Run(tt.services, func(t *testing.T) {
			cfg := AppConfig{Services: tt.services}
			if got := cfg.IsHTTPServerEnabled(); got != tt.expectedHTTP {
				t.Errorf("IsHTTPServerEnabled(): expected %v, got %v", tt.expectedHTTP, got)
			}
			if got := cfg.IsExpirerEnabled(); got != tt.expectedExpirer {
				t.Errorf("IsExpirerEnabled(): expected %v, got %v", tt.expectedExpirer, got)
			}
		})
	}
}

func TestAppConfig_ParseEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "mock")
	t.Setenv("ADMIN_GROUP", "cn=admins,ou=groups,dc=example,dc=org")
	t.Setenv("USER_GROUP", "cn=users,ou=groups,dc=example,dc=org")
	t.Setenv("DEV_AUTH_GROUPS", "admins;devs")
	t.Setenv("ADMIN_ROLE_ID", "10")
	t.Setenv("CUSTOMER_ROLE_ID", "30")
	t.Setenv("BOOKING_TIMEZONE", "Europe/Stockholm")
	t.Setenv("BOOKING_HISTORY_PAGE_SIZE", "20")
	t.Setenv("NOTIFY_PUSH_ENABLED", "true")
	t.Setenv("NOTIFY_PUSH_URL", "https://push.example.com/v1/send")
	t.Setenv("NATS_STREAM", "JOBS")
	t.Setenv("EXPIRY_INTERVAL", "1m")
	t.Setenv("RESEND_RATE_BURST", "5")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.Auth.Mode != AuthModeMock {
		t.Errorf("expected mock auth mode, got %q", cfg.Auth.Mode)
	}
	if !reflect.DeepEqual(cfg.Auth.DevAuth.Groups, []string{"admins", "devs"}) {
		t.Errorf("unexpected dev groups %v", cfg.Auth.DevAuth.Groups)
	}
	if cfg.Roles.AdminRoleID != "10" || cfg.Roles.CustomerRoleID != "30" || cfg.Roles.SuperAdminRoleID != "2" {
		t.Errorf("unexpected roles %+v", cfg.Roles)
	}
	if cfg.Booking.Location().String() != "Europe/Stockholm" {
		t.Errorf("unexpected location %s", cfg.Booking.Location())
	}
	if cfg.Booking.HistoryPageSize != 20 {
		t.Errorf("expected history page size 20, got %d", cfg.Booking.HistoryPageSize)
	}
	if !cfg.Notify.Push.Enabled || cfg.Notify.SMS.Enabled {
		t.Errorf("unexpected notify enablement %+v", cfg.Notify)
	}
	if cfg.Events.Stream != "JOBS" || cfg.Events.SubjectPrefix != "bookings" {
		t.Errorf("unexpected events config %+v", cfg.Events)
	}
	if cfg.Expiry.Interval != time.Minute {
		t.Errorf("expected expiry interval 1m, got %v", cfg.Expiry.Interval)
	}
	if cfg.RateLimit.Burst != 5 {
		t.Errorf("expected burst 5, got %d", cfg.RateLimit.Burst)
	}
}

func TestRolesConfig(t *testing.T) {
	roles := RolesConfig{AdminRoleID: "1", SuperAdminRoleID: "2", CustomerRoleID: "3", TranslatorRoleID: "4"}

	if !roles.IsAdmin("1") || !roles.IsAdmin("2") || roles.IsAdmin("3") {
		t.Errorf("admin classification is wrong")
	}
	if !roles.IsCustomer("3") || roles.IsCustomer("4") {
		t.Errorf("customer classification is wrong")
	}
	if !roles.IsTranslator("4") || roles.IsTranslator("") {
		t.Errorf("translator classification is wrong")
	}

	empty := RolesConfig{}
	if empty.IsAdmin("") || empty.IsCustomer("") {
		t.Errorf("empty role ids must never match")
	}
}

func TestBookingConfig_Sanitize(t *testing.T) {
	cfg := BookingConfig{Timezone: " ", HistoryPageSize: 0, CacheTTL: -time.Second}
	cfg.Sanitize()

	if cfg.Timezone != "UTC" || cfg.HistoryPageSize != 15 || cfg.CacheTTL != 0 {
		t.Fatalf("unexpected sanitised booking config %+v", cfg)
	}

	cfg.Timezone = "Not/AZone"
	if cfg.Location() != time.UTC {
		t.Fatalf("unknown zone should fall back to UTC")
	}
}

func TestNotifyConfig_Sanitize(t *testing.T) {
	cfg := NotifyConfig{
		Timeout:    0,
		RetryLimit: -1,
		Push:       PushGatewayConfig{Enabled: true, URL: " "},
		SMS:        SMSGatewayConfig{Enabled: true, URL: "https://sms.example.com", Sender: " "},
	}

	cfg.Sanitize()

	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected default timeout, got %v", cfg.Timeout)
	}
	if cfg.RetryLimit != 0 {
		t.Fatalf("expected retry limit clamped to 0, got %d", cfg.RetryLimit)
	}
	if cfg.Push.Enabled {
		t.Fatalf("push must be disabled without a URL")
	}
	if !cfg.SMS.Enabled || cfg.SMS.Sender != "DigitalTolk" {
		t.Fatalf("unexpected sms config %+v", cfg.SMS)
	}
}

func TestExpiryConfig_Sanitize(t *testing.T) {
	cfg := ExpiryConfig{Interval: time.Second, BatchSize: 50000}
	cfg.Sanitize()

	if cfg.Interval != 10*time.Second {
		t.Fatalf("expected interval clamp, got %v", cfg.Interval)
	}
	if cfg.BatchSize != 10000 {
		t.Fatalf("expected batch clamp, got %d", cfg.BatchSize)
	}
}

func TestMetricsConfig_Sanitize(t *testing.T) {
	cfg := MetricsConfig{Enabled: true, StatsdAddress: " "}
	cfg.Sanitize()
	if cfg.Enabled {
		t.Fatalf("expected enabled to be false when address is empty")
	}

	cfg = MetricsConfig{Enabled: true, StatsdAddress: " statsd:1234 ", Prefix: ".booking."}
	cfg.Sanitize()
	if !cfg.IsEnabled() {
		t.Fatalf("expected metrics to remain enabled")
	}
	if cfg.StatsdAddress != "statsd:1234" || cfg.Prefix != "booking" {
		t.Fatalf("unexpected metrics config %+v", cfg)
	}
}
