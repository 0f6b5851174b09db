// Package authroles maps directory groups to session roles.
package authroles

import (
	"strings"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/ports"
)

var _ ports.RoleMapper = StaticRoleMapper{}

// StaticRoleMapper grants admin for AdminGroup and user for UserGroup.
// Group names compare case-insensitively; admin wins when both match.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	role := domainauth.RoleGuest
	for _, g := range groups {
		g = strings.TrimSpace(g)
		switch {
		case m.AdminGroup != "" && strings.EqualFold(g, m.AdminGroup):
			return domainauth.RoleAdmin
		case m.UserGroup != "" && strings.EqualFold(g, m.UserGroup):
			role = domainauth.RoleUser
		}
	}
	return role
}
