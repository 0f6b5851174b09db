package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// PushConfig configures the push gateway client.
type PushConfig struct {
	Config
	// PayloadExpr reshapes the outgoing document for gateways that expect a
	// different body, e.g. "{to: user_id, notification: {title: title, body: body}, data: payload}".
	PayloadExpr string
}

// PushClient posts push notifications.
type PushClient struct {
	poster *poster
	expr   string
}

var _ core.PushSender = (*PushClient)(nil)

// NewPushClient validates cfg and its payload expression.
func NewPushClient(cfg PushConfig) (*PushClient, error) {
	p, err := newPoster("push", cfg.Config)
	if err != nil {
		return nil, err
	}
	expr := strings.TrimSpace(cfg.PayloadExpr)
	if expr != "" {
		if _, err := jmespath.Compile(expr); err != nil {
			return nil, fmt.Errorf("invalid push payload expression: %w", err)
		}
	}
	return &PushClient{poster: p, expr: expr}, nil
}

// Push sends msg, reshaped by the payload expression when one is set.
func (c *PushClient) Push(ctx context.Context, msg model.PushMessage) error {
	body, err := c.body(msg)
	if err != nil {
		return err
	}
	return c.poster.postJSON(ctx, body)
}

func (c *PushClient) body(msg model.PushMessage) (any, error) {
	if c.expr == "" {
		return msg, nil
	}
	doc, err := toDocument(msg)
	if err != nil {
		return nil, err
	}
	out, err := jmespath.Search(c.expr, doc)
	if err != nil {
		return nil, fmt.Errorf("apply push payload expression: %w", err)
	}
	return out, nil
}

// toDocument converts v to the generic map form JMESPath searches over.
func toDocument(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
