package authroles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
)

func TestStaticRoleMapper_Map(t *testing.T) {
	m := StaticRoleMapper{AdminGroup: "booking-admins", UserGroup: "booking-users"}

	tests := []struct {
		name   string
		groups []string
		want   domainauth.Role
	}{
		{name: "admin", groups: []string{"booking-admins"}, want: domainauth.RoleAdmin},
		{name: "admin wins over user", groups: []string{"booking-users", "Booking-Admins"}, want: domainauth.RoleAdmin},
		{name: "user", groups: []string{"other", " booking-users "}, want: domainauth.RoleUser},
		{name: "guest", groups: []string{"other"}, want: domainauth.RoleGuest},
		{name: "no groups", groups: nil, want: domainauth.RoleGuest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Map(tt.groups))
		})
	}

	assert.Equal(t, domainauth.RoleGuest, StaticRoleMapper{}.Map([]string{""}))
}
