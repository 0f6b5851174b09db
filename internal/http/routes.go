// Package httpx serves the booking API over net/http.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/dtapi/booking-api/config"
)

// RouterServices holds what the router wires into handlers.
type RouterServices struct {
	Booking  BookingAPI
	Auth     AuthAPI
	Sessions SessionReader
	Accounts AccountLookup
	Health   map[string]Pinger

	HTTP      config.HTTPConfig
	RateLimit config.RateLimitConfig
	LogoutURL string
	Logger    *slog.Logger
}

// NewRouter builds the handler for the whole API, with logging and panic recovery outermost.
func NewRouter(s RouterServices) http.Handler {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	health := &HealthHandler{Checks: s.Health}
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)

	if s.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:          s.Auth,
			CookieDomain: s.HTTP.CookieDomain,
			LogoutURL:    s.LogoutURL,
			Logger:       logger,
		})
	}

	if s.Booking != nil && s.Sessions != nil && s.Accounts != nil {
		jobs := &JobHandlers{Svc: s.Booking, Logger: logger, MaxBodyBytes: s.HTTP.MaxBodyBytes}
		var limiter *PrincipalLimiter
		if s.RateLimit.Enabled {
			limiter = NewPrincipalLimiter(s.RateLimit.PerMinute, s.RateLimit.Burst)
		}
		registerJobRoutes(mux, jobs, RequirePrincipal(s.Sessions, s.Accounts), limiter)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		errorResponse(w, "Not found", http.StatusNotFound)
	})

	return chain(mux, Logging(logger), Recover(logger))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET /auth/login", h.Login)
	mux.HandleFunc("GET /auth/callback", h.Callback)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerJobRoutes(
	mux *http.ServeMux,
	h *JobHandlers,
	auth func(http.Handler) http.Handler,
	limiter *PrincipalLimiter,
) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, auth(fn))
	}
	throttled := func(pattern string, fn http.HandlerFunc) {
		if limiter == nil {
			handle(pattern, fn)
			return
		}
		mux.Handle(pattern, auth(limiter.Middleware(fn)))
	}

	handle("GET /jobs", h.Index)
	handle("POST /jobs", h.Store)
	handle("GET /jobs/history", h.History)
	handle("GET /jobs/potential", h.Potential)
	handle("GET /jobs/{id}", h.Show)
	handle("PUT /jobs/{id}", h.Update)
	handle("POST /jobs/immediate-email", h.ImmediateJobEmail)
	handle("POST /jobs/accept", h.Accept)
	handle("POST /jobs/accept-by-id", h.AcceptByID)
	handle("POST /jobs/cancel", h.Cancel)
	handle("POST /jobs/end", h.End)
	handle("POST /jobs/customer-not-call", h.CustomerNotCall)
	handle("POST /jobs/distance-feed", h.DistanceFeed)
	handle("POST /jobs/reopen", h.Reopen)
	throttled("POST /jobs/resend-notifications", h.ResendNotifications)
	throttled("POST /jobs/resend-sms", h.ResendSMS)
}
