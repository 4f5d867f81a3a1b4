package sms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/agkmart/agkmart-backend/pkg/config"
	"github.com/agkmart/agkmart-backend/pkg/logger"
)

// Sender delivers a text message to a phone number. Numbers arrive as the
// bare 10-digit Indian mobile; implementations add the country code.
type Sender interface {
	Send(ctx context.Context, phone, body string) error
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg config.TwilioConfig) (*TwilioSender, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("twilio credentials are not configured")
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, from: cfg.FromNumber}, nil
}

func (t *TwilioSender) Send(ctx context.Context, phone, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo("+91" + phone)
	params.SetBody(body)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send to %s: %w", phone, err)
	}
	return nil
}

// LogSender writes the message to the log instead of sending it. Used in
// development and in environments without Twilio credentials.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (l *LogSender) Send(ctx context.Context, phone, body string) error {
	if l.logg != nil {
		ctx = l.logg.WithFields(ctx, map[string]any{"phone": phone, "body": body})
		l.logg.Info(ctx, "sms.log_sender")
	}
	return nil
}

// FromConfig picks the Twilio sender when credentials exist, the log sender
// otherwise.
func FromConfig(cfg config.TwilioConfig, logg *logger.Logger) (Sender, error) {
	if cfg.Enabled() {
		return NewTwilioSender(cfg)
	}
	return NewLogSender(logg), nil
}
