package httpx

import (
	"context"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
)

type sessionKey struct{}

type principalKey struct{}

// SetSessionInContext returns a child context carrying session. A nil session returns ctx unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFromContext returns the request's session, if any.
func SessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*domainauth.Session)
	return s, ok && s != nil
}

// SetPrincipalInContext attaches the booking account making the request.
func SetPrincipalInContext(ctx context.Context, user *model.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, user)
}

// PrincipalFromContext returns the booking account making the request.
func PrincipalFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(principalKey{}).(*model.User)
	return u, ok && u != nil
}
