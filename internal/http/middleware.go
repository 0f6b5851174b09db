package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// SessionCookie is the cookie carrying the session id.
const SessionCookie = "session_id"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// SessionReader reads live sessions.
type SessionReader interface {
	GetSession(ctx context.Context, id string) (*domainauth.Session, error)
}

// AccountLookup loads the booking account a session belongs to.
type AccountLookup interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// Logging logs one line per request with its status, duration and request id.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", reqID),
			}
			if ww.ctx == nil {
				ww.ctx = r.Context()
			}
			if u, ok := PrincipalFromContext(ww.ctx); ok {
				attrs = append(attrs, slog.Int64("user_id", u.ID))
			}
			logger.InfoContext(r.Context(), "http", attrs...)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
	// ctx is the innermost request context seen, set by RequirePrincipal.
	ctx context.Context
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover turns a panic into a 500 error envelope.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler { //nolint:errorlint // sentinel compared by identity
						panic(err)
					}
					logger.ErrorContext(r.Context(), "panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					errorResponse(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePrincipal resolves the session and its booking account, or answers 401.
// The session id comes from the session cookie or an "Authorization: Bearer" header.
func RequirePrincipal(sessions SessionReader, accounts AccountLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sessionFromRequest(r, sessions)
			if err != nil {
				errorResponse(w, "Authentication required", http.StatusUnauthorized)
				return
			}
			user, err := accounts.GetByID(r.Context(), sess.AccountID)
			if err != nil {
				errorResponse(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			ctx := SetPrincipalInContext(SetSessionInContext(r.Context(), sess), user)
			if rw, ok := w.(*respWriter); ok {
				rw.ctx = ctx
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

var errNoSessionID = errors.New("no session id")

func sessionFromRequest(r *http.Request, sessions SessionReader) (*domainauth.Session, error) {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}
	if id == "" {
		if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			id = strings.TrimSpace(h[7:])
		}
	}
	if id == "" {
		return nil, errNoSessionID
	}
	return sessions.GetSession(r.Context(), id)
}

// PrincipalLimiter throttles requests per booking account with a token bucket each.
type PrincipalLimiter struct {
	limit rate.Limit
	burst int
	max   int

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

// NewPrincipalLimiter allows perMinute sustained requests with the given burst.
func NewPrincipalLimiter(perMinute float64, burst int) *PrincipalLimiter {
	if burst < 1 {
		burst = 1
	}
	return &PrincipalLimiter{
		limit:    rate.Limit(perMinute / 60),
		burst:    burst,
		max:      10000,
		limiters: make(map[int64]*rate.Limiter),
	}
}

// Allow reports whether the account may make a request now.
func (l *PrincipalLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		if len(l.limiters) >= l.max {
			// reset when full
			l.limiters = make(map[int64]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Middleware answers 429 once the principal's bucket is empty. It must run
// after RequirePrincipal; requests without a principal pass through.
func (l *PrincipalLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := PrincipalFromContext(r.Context()); ok && !l.Allow(u.ID) {
			w.Header().Set("Retry-After", "60")
			errorResponse(w, "Too many requests, try again later", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// chain applies middleware so the first listed runs outermost.
func chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
