package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dtapi/booking-api/internal/domain/model"
	apperrors "github.com/dtapi/booking-api/internal/errors"
	"github.com/dtapi/booking-api/internal/util"
)

// BookingAPI is the booking service surface the job handlers call.
type BookingAPI interface {
	StoreJob(ctx context.Context, customer *model.User, req model.StoreJobRequest) (*model.BookingResult, error)
	DistanceFeed(ctx context.Context, user *model.User, req model.DistanceFeedRequest) (model.DistanceFeedOutcome, error)
	ShowJob(ctx context.Context, id int64) (*model.JobWithTranslator, error)
	UpdateJob(ctx context.Context, user *model.User, id int64, req model.UpdateJobRequest) (*model.BookingResult, error)
	StoreImmediateJobEmail(ctx context.Context, req model.ImmediateJobEmailRequest) (*model.BookingResult, error)
	AcceptJob(ctx context.Context, translator *model.User, jobID int64) (*model.BookingResult, error)
	AcceptJobWithID(ctx context.Context, translator *model.User, jobID int64) (*model.BookingResult, error)
	CancelJob(ctx context.Context, user *model.User, jobID int64) (*model.BookingResult, error)
	EndJob(ctx context.Context, user *model.User, jobID int64) (*model.BookingResult, error)
	CustomerNotCall(ctx context.Context, user *model.User, jobID int64) (*model.BookingResult, error)
	Reopen(ctx context.Context, user *model.User, req model.ReopenRequest) (*model.BookingResult, error)
	ListUsersJobs(ctx context.Context, caller *model.User, userID int64) (*model.UsersJobs, error)
	GetJobHistory(ctx context.Context, caller *model.User, userID int64, page int) (*model.JobHistory, error)
	ListAllJobs(ctx context.Context, caller *model.User, f model.JobListFilter) (*model.JobPage, error)
	GetPotentialJobs(ctx context.Context, translator *model.User) ([]model.Job, error)
	ResendNotifications(ctx context.Context, jobID int64) (*model.Ack, error)
	ResendSMSNotifications(ctx context.Context, jobID int64) (*model.Ack, error)
}

// JobHandlers maps each /jobs route onto one booking operation.
type JobHandlers struct {
	Svc          BookingAPI
	Logger       *slog.Logger
	MaxBodyBytes int64
}

func (h *JobHandlers) fail(w http.ResponseWriter, r *http.Request, prefix string, err error) {
	writeFailure(w, r, failureParams{Prefix: prefix, Err: err, Logger: h.Logger})
}

func (h *JobHandlers) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return DecodeJSON(w, r, dst, h.MaxBodyBytes)
}

// Index lists the jobs of ?user_id, or every job for an administrator.
// GET /jobs.
func (h *JobHandlers) Index(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error retrieving jobs: "
	caller := principal(r)
	q := r.URL.Query()

	if raw := q.Get("user_id"); raw != "" {
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			h.fail(w, r, prefix, apperrors.ValidationField("user_id", "user_id must be a positive integer"))
			return
		}
		jobs, err := h.Svc.ListUsersJobs(r.Context(), caller, userID)
		if err != nil {
			h.fail(w, r, prefix, err)
			return
		}
		successResponse(w, jobs, http.StatusOK)
		return
	}

	f, err := parseJobListFilter(q)
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	page, err := h.Svc.ListAllJobs(r.Context(), caller, f)
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	successResponse(w, page, http.StatusOK)
}

// Show returns one job with its distance and translator.
// GET /jobs/{id}.
func (h *JobHandlers) Show(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error retrieving job: "
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	job, err := h.Svc.ShowJob(r.Context(), id)
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	successResponse(w, job, http.StatusOK)
}

// Store creates a booking for the calling customer.
// POST /jobs.
func (h *JobHandlers) Store(w http.ResponseWriter, r *http.Request) {
	var req model.StoreJobRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.Svc.StoreJob(r.Context(), principal(r), req)
	if err != nil {
		h.fail(w, r, "Error storing job: ", err)
		return
	}
	successResponse(w, res, http.StatusOK)
}

// Update applies a partial update.
// PUT /jobs/{id}.
func (h *JobHandlers) Update(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error updating job: "
	id, err := pathID(r)
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	var req model.UpdateJobRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.Svc.UpdateJob(r.Context(), principal(r), id, req)
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	successResponse(w, res, http.StatusOK)
}

// ImmediateJobEmail records contact details of an immediate job.
// POST /jobs/immediate-email.
func (h *JobHandlers) ImmediateJobEmail(w http.ResponseWriter, r *http.Request) {
	var req model.ImmediateJobEmailRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.Svc.StoreImmediateJobEmail(r.Context(), req)
	if err != nil {
		h.fail(w, r, "Error sending immediate job email: ", err)
		return
	}
	successResponse(w, res, http.StatusOK)
}

// History pages through finished jobs of ?user_id, or of the caller.
// GET /jobs/history.
func (h *JobHandlers) History(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error retrieving job history: "
	q := r.URL.Query()
	var userID int64
	if raw := q.Get("user_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.fail(w, r, prefix, apperrors.ValidationField("user_id", "user_id must be an integer"))
			return
		}
		userID = v
	}
	page, _ := strconv.Atoi(util.FirstValue(q, "page", "1"))
	hist, err := h.Svc.GetJobHistory(r.Context(), principal(r), userID, page)
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	successResponse(w, hist, http.StatusOK)
}

// Accept assigns a job to the calling translator.
// POST /jobs/accept.
func (h *JobHandlers) Accept(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "Error accepting job: ", h.Svc.AcceptJob)
}

// AcceptByID is Accept returning the job with its translator relation.
// POST /jobs/accept-by-id.
func (h *JobHandlers) AcceptByID(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "Error accepting job by ID: ", h.Svc.AcceptJobWithID)
}

// Cancel withdraws a booking or releases a translator.
// POST /jobs/cancel.
func (h *JobHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "Error canceling job: ", h.Svc.CancelJob)
}

// End completes a started or assigned job.
// POST /jobs/end.
func (h *JobHandlers) End(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "Error ending job: ", h.Svc.EndJob)
}

// CustomerNotCall records a customer no-show.
// POST /jobs/customer-not-call.
func (h *JobHandlers) CustomerNotCall(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "Error handling customer not calling: ", h.Svc.CustomerNotCall)
}

type lifecycleOp func(ctx context.Context, user *model.User, jobID int64) (*model.BookingResult, error)

func (h *JobHandlers) lifecycle(w http.ResponseWriter, r *http.Request, prefix string, op lifecycleOp) {
	ref, ok := h.jobRef(w, r)
	if !ok {
		return
	}
	res, err := op(r.Context(), principal(r), ref.ID())
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	successResponse(w, res, http.StatusOK)
}

// Potential lists open jobs the calling translator may accept.
// GET /jobs/potential.
func (h *JobHandlers) Potential(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Svc.GetPotentialJobs(r.Context(), principal(r))
	if err != nil {
		h.fail(w, r, "Error retrieving potential jobs: ", err)
		return
	}
	if jobs == nil {
		jobs = []model.Job{}
	}
	successResponse(w, jobs, http.StatusOK)
}

// DistanceFeed records distance and admin bookkeeping. The data is the outcome message.
// POST /jobs/distance-feed.
func (h *JobHandlers) DistanceFeed(w http.ResponseWriter, r *http.Request) {
	var req model.DistanceFeedRequest
	if !h.decode(w, r, &req) {
		return
	}
	outcome, err := h.Svc.DistanceFeed(r.Context(), principal(r), req)
	if err != nil {
		h.fail(w, r, "Error updating record: ", err)
		return
	}
	successResponse(w, string(outcome), http.StatusOK)
}

// Reopen puts a finished or cancelled job back to pending.
// POST /jobs/reopen.
func (h *JobHandlers) Reopen(w http.ResponseWriter, r *http.Request) {
	var req model.ReopenRequest
	if !h.decode(w, r, &req) {
		return
	}
	res, err := h.Svc.Reopen(r.Context(), principal(r), req)
	if err != nil {
		h.fail(w, r, "Error reopening job: ", err)
		return
	}
	successResponse(w, res, http.StatusOK)
}

// ResendNotifications pushes the job to every eligible translator again.
// POST /jobs/resend-notifications.
func (h *JobHandlers) ResendNotifications(w http.ResponseWriter, r *http.Request) {
	h.resend(w, r, "Error resending notifications: ", h.Svc.ResendNotifications)
}

// ResendSMS texts the job to every eligible translator with a phone.
// POST /jobs/resend-sms.
func (h *JobHandlers) ResendSMS(w http.ResponseWriter, r *http.Request) {
	h.resend(w, r, "Error sending SMS: ", h.Svc.ResendSMSNotifications)
}

func (h *JobHandlers) resend(
	w http.ResponseWriter,
	r *http.Request,
	prefix string,
	op func(ctx context.Context, jobID int64) (*model.Ack, error),
) {
	ref, ok := h.jobRef(w, r)
	if !ok {
		return
	}
	if ref.ID() <= 0 {
		h.fail(w, r, prefix, apperrors.ValidationField("jobid", "jobid is required"))
		return
	}
	ack, err := op(r.Context(), ref.ID())
	if err != nil {
		h.fail(w, r, prefix, err)
		return
	}
	successResponse(w, ack, http.StatusOK)
}

// jobRef reads job_id or jobid from the body, falling back to the query string.
func (h *JobHandlers) jobRef(w http.ResponseWriter, r *http.Request) (model.JobRef, bool) {
	var ref model.JobRef
	if !h.decode(w, r, &ref) {
		return ref, false
	}
	if ref.ID() == 0 {
		q := r.URL.Query()
		raw := util.FirstValue(q, "job_id", util.FirstValue(q, "jobid", ""))
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ref.JobID = model.FlexInt(v)
		}
	}
	return ref, true
}

func principal(r *http.Request) *model.User {
	u, _ := PrincipalFromContext(r.Context())
	return u
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.ValidationField("id", "job id must be a positive integer")
	}
	return id, nil
}

// parseJobListFilter reads the admin listing filters. List values are comma separated.
func parseJobListFilter(q map[string][]string) (model.JobListFilter, error) {
	get := func(k string) string {
		return strings.TrimSpace(util.FirstValue(q, k, ""))
	}
	var f model.JobListFilter
	var err error

	if f.IDs, err = parseIDs(get("id"), "id"); err != nil {
		return f, err
	}
	if f.LanguageIDs, err = parseIDs(get("lang"), "lang"); err != nil {
		return f, err
	}
	for _, s := range splitList(get("status")) {
		st := model.JobStatus(s)
		if !st.Valid() {
			return f, apperrors.ValidationField("status", fmt.Sprintf("unknown status %q", s))
		}
		f.Statuses = append(f.Statuses, st)
	}
	for _, s := range splitList(get("job_type")) {
		f.JobTypes = append(f.JobTypes, model.JobType(s))
	}
	f.CustomerEmail = get("customer_email")
	f.TranslatorEmail = get("translator_email")

	if f.Immediate, err = parseOptionalFlag(get("immediate"), "immediate"); err != nil {
		return f, err
	}
	if f.Flagged, err = parseOptionalFlag(get("flagged"), "flagged"); err != nil {
		return f, err
	}
	if f.From, err = parseOptionalDate(get("from"), "from"); err != nil {
		return f, err
	}
	if f.To, err = parseOptionalDate(get("to"), "to"); err != nil {
		return f, err
	}
	if f.To != nil {
		end := f.To.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	f.Page, _ = strconv.Atoi(get("page"))
	f.PerPage, _ = strconv.Atoi(get("per_page"))
	return f, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDs(raw, field string) ([]int64, error) {
	var ids []int64
	for _, p := range splitList(raw) {
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, apperrors.ValidationField(field, fmt.Sprintf("%s must be a list of integers", field))
		}
		ids = append(ids, v)
	}
	return ids, nil
}

func parseOptionalFlag(raw, field string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := model.ParseFlag(raw)
	if err != nil {
		return nil, apperrors.ValidationField(field, fmt.Sprintf("%s must be yes or no", field))
	}
	return &v, nil
}

func parseOptionalDate(raw, field string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, apperrors.ValidationField(field, fmt.Sprintf("%s must be YYYY-MM-DD", field))
	}
	return &t, nil
}
