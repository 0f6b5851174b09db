// Package gateway posts translator notifications to the push and SMS
// gateways over HTTP.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody caps how much of a failed response is kept in the error.
const maxErrorBody = 512

// Config is shared by the push and SMS clients.
type Config struct {
	URL        string
	APIKey     string
	Timeout    time.Duration
	RetryLimit int
	Client     *http.Client
}

// StatusError is a non-2xx gateway response.
type StatusError struct {
	Gateway    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s gateway returned %d: %s", e.Gateway, e.StatusCode, e.Body)
}

// Retryable reports whether resending may succeed.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// poster sends JSON bodies with linear backoff. Client errors other than 429
// are not retried.
type poster struct {
	name       string
	url        string
	apiKey     string
	retryLimit int
	client     *http.Client
	backoff    time.Duration
}

func newPoster(name string, cfg Config) (*poster, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, fmt.Errorf("%s gateway url is required", name)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	hc := cfg.Client
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &poster{
		name:       name,
		url:        url,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		retryLimit: max(cfg.RetryLimit, 0),
		client:     hc,
		backoff:    200 * time.Millisecond,
	}, nil
}

func (p *poster) postJSON(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", p.name, err)
	}

	var lastErr error
	for attempt := range p.retryLimit + 1 {
		if attempt > 0 {
			if err := sleep(ctx, time.Duration(attempt)*p.backoff); err != nil {
				return err
			}
		}
		err := p.post(ctx, body)
		if err == nil {
			return nil
		}
		lastErr = err
		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return err
		}
	}
	return lastErr
}

func (p *poster) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", p.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return fmt.Errorf("drain %s response body: %w", p.name, err)
		}
		return nil
	}

	msg, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("read %s error response: %w", p.name, err)
	}
	return &StatusError{Gateway: p.name, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
