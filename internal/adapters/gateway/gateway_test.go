package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtapi/booking-api/internal/domain/model"
)

func fastPoster(t *testing.T, p *poster) {
	t.Helper()
	p.backoff = time.Millisecond
}

func TestNewClientsRequireURL(t *testing.T) {
	_, err := NewPushClient(PushConfig{})
	require.Error(t, err)
	_, err = NewSMSClient(SMSConfig{})
	require.Error(t, err)
}

func TestNewPushClientRejectsBadExpression(t *testing.T) {
	_, err := NewPushClient(PushConfig{Config: Config{URL: "http://push.local"}, PayloadExpr: "{to: "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid push payload expression")
}

func TestPushClient_PostsMessageWithAuth(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c, err := NewPushClient(PushConfig{Config: Config{URL: srv.URL, APIKey: "secret"}})
	require.NoError(t, err)

	err = c.Push(context.Background(), model.PushMessage{
		UserID: 7, Title: "New booking", Body: "Swedish, 60 min",
		Payload: model.JobNotification{JobID: 12, JobType: model.JobTypePaid},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 7, got["user_id"])
	assert.Equal(t, "New booking", got["title"])
	payload, ok := got["payload"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 12, payload["job_id"])
}

func TestPushClient_AppliesPayloadExpression(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c, err := NewPushClient(PushConfig{
		Config:      Config{URL: srv.URL},
		PayloadExpr: "{to: user_id, notification: {title: title}, job: payload.job_id}",
	})
	require.NoError(t, err)

	require.NoError(t, c.Push(context.Background(), model.PushMessage{
		UserID: 3, Title: "Booking", Payload: model.JobNotification{JobID: 99},
	}))
	assert.EqualValues(t, 3, got["to"])
	assert.EqualValues(t, 99, got["job"])
	assert.Equal(t, map[string]any{"title": "Booking"}, got["notification"])
}

func TestPoster_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := NewSMSClient(SMSConfig{Config: Config{URL: srv.URL, RetryLimit: 3}})
	require.NoError(t, err)
	fastPoster(t, c.poster)

	require.NoError(t, c.SendSMS(context.Background(), model.SMSMessage{To: "+46701234567", Body: "hi"}))
	assert.Equal(t, int32(3), calls.Load())
}

func TestPoster_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "bad number", http.StatusBadRequest)
	}))
	defer srv.Close()

	c, err := NewSMSClient(SMSConfig{Config: Config{URL: srv.URL, RetryLimit: 3}})
	require.NoError(t, err)
	fastPoster(t, c.poster)

	err = c.SendSMS(context.Background(), model.SMSMessage{To: "123", Body: "hi"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "bad number", se.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestSMSClient_Body(t *testing.T) {
	var got smsBody
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	c, err := NewSMSClient(SMSConfig{Config: Config{URL: srv.URL}})
	require.NoError(t, err)
	require.NoError(t, c.SendSMS(context.Background(), model.SMSMessage{To: " +4670 ", Body: "New booking"}))
	assert.Equal(t, smsBody{From: "DigitalTolk", To: "+4670", Message: "New booking"}, got)

	require.Error(t, c.SendSMS(context.Background(), model.SMSMessage{Body: "nobody"}))
}

func TestPoster_StopsOnContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := NewSMSClient(SMSConfig{Config: Config{URL: srv.URL, RetryLimit: 5}})
	require.NoError(t, err)
	c.poster.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = c.SendSMS(ctx, model.SMSMessage{To: "1", Body: "x"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
