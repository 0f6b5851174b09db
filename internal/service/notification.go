package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
	"golang.org/x/sync/errgroup"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/booking"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// NotificationServiceOptions groups dependencies for NotificationService.
type NotificationServiceOptions struct {
	Users    core.UserRepository // Required: translator lookups
	Push     core.PushSender     // Optional: nil disables push
	SMS      core.SMSSender      // Optional: nil disables SMS
	Location *time.Location      // Optional: time zone for message dates
	// Concurrency bounds in-flight gateway requests per fan-out. Defaults to 8.
	Concurrency int
	Logger      *slog.Logger
}

// NotificationService fans job notifications out to eligible translators.
type NotificationService struct {
	users       core.UserRepository
	push        core.PushSender
	sms         core.SMSSender
	loc         *time.Location
	concurrency int
	logger      *slog.Logger
}

var _ core.TranslatorNotifier = (*NotificationService)(nil)

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(opts NotificationServiceOptions) (*NotificationService, error) {
	if opts.Users == nil {
		return nil, errors.New("UserRepository is required")
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	n := opts.Concurrency
	if n < 1 {
		n = 8
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationService{
		users:       opts.Users,
		push:        opts.Push,
		sms:         opts.SMS,
		loc:         loc,
		concurrency: n,
		logger:      logger.With("component", "notification_service"),
	}, nil
}

// NotifyTranslators pushes data to the eligible translators of job that
// match audience. audience is "*" for everyone or a JMESPath filter over the
// translator documents, e.g. "[?gender == 'female']".
func (s *NotificationService) NotifyTranslators(
	ctx context.Context,
	job *model.Job,
	data model.JobNotification,
	audience string,
) error {
	if s.push == nil {
		s.logger.DebugContext(ctx, "push disabled, skipping notification", "job_id", job.ID)
		return nil
	}
	translators, err := s.eligible(ctx, job)
	if err != nil {
		return err
	}
	selected, err := selectAudience(translators, audience)
	if err != nil {
		return err
	}

	body := booking.PushText(data)
	return s.fanOut(ctx, "push", job.ID, selected, func(ctx context.Context, t model.User) error {
		return s.push.Push(ctx, model.PushMessage{
			UserID:  t.ID,
			Title:   booking.PushTitleFor(data.Kind),
			Body:    body,
			Payload: data,
		})
	})
}

// SendSMSToTranslators texts job to every eligible translator with a phone number.
func (s *NotificationService) SendSMSToTranslators(ctx context.Context, job *model.Job) error {
	if s.sms == nil {
		s.logger.DebugContext(ctx, "sms disabled, skipping notification", "job_id", job.ID)
		return nil
	}
	translators, err := s.eligible(ctx, job)
	if err != nil {
		return err
	}
	withPhone := translators[:0:0]
	for _, t := range translators {
		if strings.TrimSpace(t.Phone) != "" {
			withPhone = append(withPhone, t)
		}
	}

	text := booking.SMSText(job, s.loc)
	return s.fanOut(ctx, "sms", job.ID, withPhone, func(ctx context.Context, t model.User) error {
		return s.sms.SendSMS(ctx, model.SMSMessage{To: t.Phone, Body: text})
	})
}

// eligible lists translators for the job's language and type, dropping those
// of the wrong gender when the job asks for one.
func (s *NotificationService) eligible(ctx context.Context, job *model.Job) ([]model.User, error) {
	translators, err := s.users.ListTranslatorsFor(ctx, job.FromLanguageID, job.JobType)
	if err != nil {
		return nil, fmt.Errorf("list translators: %w", err)
	}
	if job.Gender == "" {
		return translators, nil
	}
	out := translators[:0:0]
	for _, t := range translators {
		if strings.EqualFold(t.Gender, job.Gender) {
			out = append(out, t)
		}
	}
	return out, nil
}

// fanOut calls send for every translator with bounded concurrency. One
// failure does not stop the others; all failures are joined.
func (s *NotificationService) fanOut(
	ctx context.Context,
	channel string,
	jobID int64,
	translators []model.User,
	send func(context.Context, model.User) error,
) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(s.concurrency)
	for _, t := range translators {
		g.Go(func() error {
			if err := send(ctx, t); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("translator %d: %w", t.ID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.InfoContext(ctx, "translators notified",
		"channel", channel,
		"job_id", jobID,
		"recipients", len(translators),
		"failed", len(errs),
	)
	if len(errs) > 0 {
		return fmt.Errorf("%s to %d of %d translators failed: %w", channel, len(errs), len(translators), errors.Join(errs...))
	}
	return nil
}

// translatorDoc is the shape audience expressions are evaluated against.
type translatorDoc struct {
	ID             int64  `json:"id"`
	Email          string `json:"email"`
	Gender         string `json:"gender"`
	TranslatorType string `json:"translator_type"`
}

// selectAudience filters translators with a JMESPath expression. The
// expression must yield a list of objects carrying an id.
func selectAudience(translators []model.User, audience string) ([]model.User, error) {
	audience = strings.TrimSpace(audience)
	if audience == "" || audience == model.AudienceAll {
		return translators, nil
	}

	docs := make([]translatorDoc, len(translators))
	for i, t := range translators {
		docs[i] = translatorDoc{ID: t.ID, Email: t.Email, Gender: t.Gender, TranslatorType: string(t.TranslatorType)}
	}
	raw, err := json.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode audience documents: %w", err)
	}
	var generic []any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode audience documents: %w", err)
	}

	result, err := jmespath.Search(audience, generic)
	if err != nil {
		return nil, fmt.Errorf("evaluate audience %q: %w", audience, err)
	}
	items, ok := result.([]any)
	if !ok {
		return nil, fmt.Errorf("audience %q must select a list of translators", audience)
	}

	wanted := make(map[int64]bool, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := obj["id"].(float64); ok {
			wanted[int64(id)] = true
		}
	}
	out := make([]model.User, 0, len(wanted))
	for _, t := range translators {
		if wanted[t.ID] {
			out = append(out, t)
		}
	}
	return out, nil
}
