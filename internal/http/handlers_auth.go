package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	apperrors "github.com/dtapi/booking-api/internal/errors"
	"github.com/dtapi/booking-api/internal/service"
)

// AuthAPI is the login flow the auth handlers drive.
type AuthAPI interface {
	BeginLogin(ctx context.Context, redirectURL string) (*service.BeginLoginResult, error)
	CompleteLogin(ctx context.Context, in service.CompleteLoginInput) (*domainauth.Session, error)
	GetSession(ctx context.Context, id string) (*domainauth.Session, error)
	Logout(ctx context.Context, id string) error
}

const (
	stateCookie    = "oauth_state"
	nonceCookie    = "oauth_nonce"
	redirectCookie = "post_login_redirect"
	flowCookieAge  = 600
)

// AuthHandlers serves /auth/*.
type AuthHandlers struct {
	Svc          AuthAPI
	CookieDomain string
	// LogoutURL is where browsers go after logout, typically the IdP end-session URL.
	LogoutURL string
	Logger    *slog.Logger
	Now       func() time.Time
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *AuthHandlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Login starts the flow and redirects to the identity provider.
// GET /auth/login?redirect_uri=/path.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	res, err := h.Svc.BeginLogin(r.Context(), redirectURI)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "begin login failed", "error", err)
		errorResponse(w, "Error starting login: "+err.Error(), http.StatusInternalServerError)
		return
	}

	h.setCookie(w, r, &http.Cookie{Name: stateCookie, Value: res.State, MaxAge: flowCookieAge})
	h.setCookie(w, r, &http.Cookie{Name: nonceCookie, Value: res.Nonce, MaxAge: flowCookieAge})
	h.setCookie(w, r, &http.Cookie{Name: redirectCookie, Value: redirectURI, MaxAge: flowCookieAge})
	http.Redirect(w, r, res.AuthURL, http.StatusFound)
}

// Callback completes the flow, sets the session cookie and redirects back.
// GET /auth/callback?code=...&state=....
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code, state := q.Get("code"), q.Get("state")
	switch {
	case code == "":
		errorResponse(w, "authorization code is required", http.StatusBadRequest)
		return
	case state == "":
		errorResponse(w, "state parameter is required", http.StatusBadRequest)
		return
	}
	sc, err := r.Cookie(stateCookie)
	if err != nil || sc.Value != state {
		errorResponse(w, "invalid or missing state parameter", http.StatusBadRequest)
		return
	}
	nc, err := r.Cookie(nonceCookie)
	if err != nil || nc.Value == "" {
		errorResponse(w, "missing nonce parameter", http.StatusBadRequest)
		return
	}

	sess, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{Code: code, State: state, Nonce: nc.Value})
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Error completing login: " + err.Error()
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.ErrCodeForbidden {
			status, msg = http.StatusForbidden, appErr.Message
		} else {
			h.logger().ErrorContext(r.Context(), "complete login failed", "error", err)
		}
		errorResponse(w, msg, status)
		return
	}

	maxAge := int(sess.ExpiresAt.Sub(h.now()).Seconds())
	h.setCookie(w, r, &http.Cookie{Name: SessionCookie, Value: sess.ID, MaxAge: maxAge})
	h.clearCookie(w, r, stateCookie)
	h.clearCookie(w, r, nonceCookie)

	dest := "/"
	if rc, err := r.Cookie(redirectCookie); err == nil {
		dest = safeRedirectPath(rc.Value)
		h.clearCookie(w, r, redirectCookie)
	}
	http.Redirect(w, r, dest, http.StatusFound)
}

// Logout drops the session. JSON clients get an envelope; browsers are redirected.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if err := h.Svc.Logout(r.Context(), c.Value); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.clearCookie(w, r, SessionCookie)

	dest := h.LogoutURL
	if dest == "" {
		dest = safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		successResponse(w, map[string]string{"redirect_to": dest}, http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusFound)
}

// Status reports whether the request carries a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(SessionCookie)
	if err != nil {
		successResponse(w, map[string]any{"authenticated": false}, http.StatusOK)
		return
	}
	sess, err := h.Svc.GetSession(r.Context(), c.Value)
	if err != nil {
		h.clearCookie(w, r, SessionCookie)
		successResponse(w, map[string]any{"authenticated": false}, http.StatusOK)
		return
	}
	successResponse(w, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"id":    sess.AccountID,
			"name":  sess.Name,
			"email": sess.Email,
			"role":  sess.Role,
		},
		"expires_at": sess.ExpiresAt,
	}, http.StatusOK)
}

func (h *AuthHandlers) setCookie(w http.ResponseWriter, r *http.Request, c *http.Cookie) {
	c.Path = "/"
	c.Domain = h.CookieDomain
	c.HttpOnly = true
	c.Secure = isSecure(r)
	c.SameSite = http.SameSiteLaxMode
	http.SetCookie(w, c)
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	h.setCookie(w, r, &http.Cookie{Name: name, MaxAge: -1, Expires: time.Unix(0, 0).UTC()})
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// safeRedirectPath keeps same-origin relative paths and maps everything else to "/".
func safeRedirectPath(candidate string) string {
	if candidate == "" || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
