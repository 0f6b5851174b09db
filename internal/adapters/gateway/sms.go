package gateway

import (
	"context"
	"errors"
	"strings"

	"github.com/dtapi/booking-api/internal/core"
	"github.com/dtapi/booking-api/internal/domain/model"
)

// SMSConfig configures the SMS gateway client.
type SMSConfig struct {
	Config
	Sender string
}

// SMSClient posts text messages.
type SMSClient struct {
	poster *poster
	sender string
}

var _ core.SMSSender = (*SMSClient)(nil)

// NewSMSClient builds an SMS client. Sender defaults to "DigitalTolk".
func NewSMSClient(cfg SMSConfig) (*SMSClient, error) {
	p, err := newPoster("sms", cfg.Config)
	if err != nil {
		return nil, err
	}
	sender := strings.TrimSpace(cfg.Sender)
	if sender == "" {
		sender = "DigitalTolk"
	}
	return &SMSClient{poster: p, sender: sender}, nil
}

type smsBody struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// SendSMS posts msg. A message without recipient is rejected before any request.
func (c *SMSClient) SendSMS(ctx context.Context, msg model.SMSMessage) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return errors.New("sms recipient is required")
	}
	return c.poster.postJSON(ctx, smsBody{From: c.sender, To: to, Message: msg.Body})
}
