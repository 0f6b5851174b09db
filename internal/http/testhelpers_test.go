package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	domainauth "github.com/dtapi/booking-api/internal/domain/auth"
	"github.com/dtapi/booking-api/internal/domain/model"
	"github.com/dtapi/booking-api/internal/ports"
)

// fakeBooking overrides the operations a test needs; anything else panics.
type fakeBooking struct {
	BookingAPI

	storeJob      func(ctx context.Context, u *model.User, req model.StoreJobRequest) (*model.BookingResult, error)
	showJob       func(ctx context.Context, id int64) (*model.JobWithTranslator, error)
	updateJob     func(ctx context.Context, u *model.User, id int64, req model.UpdateJobRequest) (*model.BookingResult, error)
	distanceFeed  func(ctx context.Context, u *model.User, req model.DistanceFeedRequest) (model.DistanceFeedOutcome, error)
	cancelJob     func(ctx context.Context, u *model.User, id int64) (*model.BookingResult, error)
	acceptJob     func(ctx context.Context, u *model.User, id int64) (*model.BookingResult, error)
	listUsersJobs func(ctx context.Context, caller *model.User, userID int64) (*model.UsersJobs, error)
	listAllJobs   func(ctx context.Context, caller *model.User, f model.JobListFilter) (*model.JobPage, error)
	history       func(ctx context.Context, caller *model.User, userID int64, page int) (*model.JobHistory, error)
	potential     func(ctx context.Context, u *model.User) ([]model.Job, error)
	resend        func(ctx context.Context, id int64) (*model.Ack, error)
	reopen        func(ctx context.Context, u *model.User, req model.ReopenRequest) (*model.BookingResult, error)
}

func (f *fakeBooking) StoreJob(ctx context.Context, u *model.User, req model.StoreJobRequest) (*model.BookingResult, error) {
	return f.storeJob(ctx, u, req)
}

func (f *fakeBooking) ShowJob(ctx context.Context, id int64) (*model.JobWithTranslator, error) {
	return f.showJob(ctx, id)
}

func (f *fakeBooking) UpdateJob(ctx context.Context, u *model.User, id int64, req model.UpdateJobRequest) (*model.BookingResult, error) {
	return f.updateJob(ctx, u, id, req)
}

func (f *fakeBooking) DistanceFeed(
	ctx context.Context,
	u *model.User,
	req model.DistanceFeedRequest,
) (model.DistanceFeedOutcome, error) {
	return f.distanceFeed(ctx, u, req)
}

func (f *fakeBooking) CancelJob(ctx context.Context, u *model.User, id int64) (*model.BookingResult, error) {
	return f.cancelJob(ctx, u, id)
}

func (f *fakeBooking) AcceptJob(ctx context.Context, u *model.User, id int64) (*model.BookingResult, error) {
	return f.acceptJob(ctx, u, id)
}

func (f *fakeBooking) ListUsersJobs(ctx context.Context, caller *model.User, userID int64) (*model.UsersJobs, error) {
	return f.listUsersJobs(ctx, caller, userID)
}

func (f *fakeBooking) ListAllJobs(ctx context.Context, caller *model.User, fl model.JobListFilter) (*model.JobPage, error) {
	return f.listAllJobs(ctx, caller, fl)
}

func (f *fakeBooking) GetJobHistory(ctx context.Context, caller *model.User, userID int64, page int) (*model.JobHistory, error) {
	return f.history(ctx, caller, userID, page)
}

func (f *fakeBooking) GetPotentialJobs(ctx context.Context, u *model.User) ([]model.Job, error) {
	return f.potential(ctx, u)
}

func (f *fakeBooking) ResendNotifications(ctx context.Context, id int64) (*model.Ack, error) {
	return f.resend(ctx, id)
}

func (f *fakeBooking) ResendSMSNotifications(ctx context.Context, id int64) (*model.Ack, error) {
	return f.resend(ctx, id)
}

func (f *fakeBooking) Reopen(ctx context.Context, u *model.User, req model.ReopenRequest) (*model.BookingResult, error) {
	return f.reopen(ctx, u, req)
}

// fakeSessions serves fixed sessions by id.
type fakeSessions map[string]domainauth.Session

func (f fakeSessions) GetSession(_ context.Context, id string) (*domainauth.Session, error) {
	s, ok := f[id]
	if !ok {
		return nil, ports.ErrSessionNotFound
	}
	return &s, nil
}

// fakeAccounts serves fixed users by id.
type fakeAccounts map[int64]*model.User

func (f fakeAccounts) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, context.Canceled
	}
	return u, nil
}

var (
	testCustomer   = &model.User{ID: 10, UserType: "3"}
	testTranslator = &model.User{ID: 20, UserType: "4"}
	testAdmin      = &model.User{ID: 1, UserType: "1"}
)

func testPrincipals() (fakeSessions, fakeAccounts) {
	sessions := fakeSessions{
		"customer":   {ID: "customer", AccountID: 10, Role: domainauth.RoleUser},
		"translator": {ID: "translator", AccountID: 20, Role: domainauth.RoleUser},
		"admin":      {ID: "admin", AccountID: 1, Role: domainauth.RoleAdmin},
	}
	accounts := fakeAccounts{10: testCustomer, 20: testTranslator, 1: testAdmin}
	return sessions, accounts
}

func newTestRouter(t *testing.T, svc BookingAPI, mutate ...func(*RouterServices)) http.Handler {
	t.Helper()
	sessions, accounts := testPrincipals()
	rs := RouterServices{
		Booking:  svc,
		Sessions: sessions,
		Accounts: accounts,
	}
	for _, m := range mutate {
		m(&rs)
	}
	return NewRouter(rs)
}

// do sends a request as the session id (empty for anonymous) and returns the recorder.
func do(t *testing.T, h http.Handler, method, target, session string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: session})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type decodedEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) decodedEnvelope {
	t.Helper()
	var env decodedEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}
