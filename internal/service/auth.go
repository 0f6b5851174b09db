package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtapi/booking-api/internal/core"
	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	apperrors "github.com/dtapi/booking-api/internal/errors"
	"github.com/dtapi/booking-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider  // Required: identity provider
	Sessions ports.SessionStore  // Required: session persistence
	Roles    ports.RoleMapper    // Required: group to role mapping
	Users    core.UserRepository // Required: account lookup
	Logger   *slog.Logger
	Now      func() time.Time
}

// AuthService runs the login flow and ties each session to a booking account.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	roles    ports.RoleMapper
	users    core.UserRepository
	logger   *slog.Logger
	now      func() time.Time
}

// ErrSessionExpired is returned by GetSession for a lapsed session.
var ErrSessionExpired = errors.New("session expired")

// ErrNoSession is returned by GetSession for an unknown session id.
var ErrNoSession = ports.ErrSessionNotFound

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	switch {
	case opts.Provider == nil:
		return nil, errors.New("AuthProvider is required")
	case opts.Sessions == nil:
		return nil, errors.New("SessionStore is required")
	case opts.Roles == nil:
		return nil, errors.New("RoleMapper is required")
	case opts.Users == nil:
		return nil, errors.New("UserRepository is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		roles:    opts.Roles,
		users:    opts.Users,
		logger:   logger.With("component", "auth_service"),
		now:      now,
	}, nil
}

// MustNewAuthService constructs a new AuthService and panics on error.
func MustNewAuthService(opts AuthServiceOptions) *AuthService {
	svc, err := NewAuthService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create AuthService: %v", err))
	}
	return svc
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the code, resolves the booking account and
// persists a session. Identities outside the configured groups, and
// identities with no matching account, are refused with a forbidden error.
func (s *AuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*domainauth.Session, error) {
	switch {
	case in.Code == "":
		return nil, errors.New("authorization code is required")
	case in.State == "":
		return nil, errors.New("state parameter is required")
	case in.Nonce == "":
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput(in))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	role := s.roles.Map(identity.Groups)
	if role == domainauth.RoleGuest {
		s.logger.WarnContext(ctx, "login refused: no authorized group", "subject", identity.Subject)
		return nil, apperrors.Forbidden("Your account is not allowed to use this service")
	}

	account, err := s.resolveAccount(ctx, identity)
	if err != nil {
		return nil, err
	}

	sess := domainauth.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Subject:   identity.Subject,
		Name:      identity.Name,
		Email:     identity.Email,
		Role:      role,
		ExpiresAt: identity.ExpiresAt,
	}
	if sess.Name == "" {
		sess.Name = account.Name
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "login completed", "account_id", account.ID, "role", role)
	return &sess, nil
}

// resolveAccount matches the subject against users.external_id, then the email.
func (s *AuthService) resolveAccount(ctx context.Context, id domainauth.Identity) (*model.User, error) {
	if id.Subject != "" {
		u, err := s.users.GetByExternalID(ctx, id.Subject)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, core.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup account by subject: %w", err)
		}
	}
	if id.Email != "" {
		u, err := s.users.GetByEmail(ctx, id.Email)
		if err == nil {
			return u, nil
		}
		if !errors.Is(err, core.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup account by email: %w", err)
		}
	}
	s.logger.WarnContext(ctx, "login refused: no booking account", "subject", id.Subject)
	return nil, apperrors.Wrap(core.ErrUserNotFound, apperrors.ErrCodeForbidden, "No booking account matches this login")
}

// GetSession returns the live session for id. Lapsed sessions are deleted.
func (s *AuthService) GetSession(ctx context.Context, id string) (*domainauth.Session, error) {
	if id == "" {
		return nil, ErrNoSession
	}
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		if delErr := s.sessions.Delete(ctx, id); delErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", delErr))
		}
		return nil, ErrSessionExpired
	}
	return &sess, nil
}

// Logout removes a session. An empty id is a no-op.
func (s *AuthService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
