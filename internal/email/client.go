package email

import (
	"context"

	"github.com/flexprice/costinvoice/internal/config"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/resend/resend-go/v2"
)

// Provider names
const (
	ProviderResend = "resend"
	ProviderSMTP   = "smtp"
)

// Transport delivers a Message and returns a provider message id
type Transport interface {
	Name() string
	Send(ctx context.Context, msg *Message) (string, error)
}

// NewTransport selects the configured transport
func NewTransport(cfg *config.Configuration) (Transport, error) {
	switch cfg.Email.Provider {
	case ProviderSMTP:
		return NewSMTPClient(SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
		}), nil
	case ProviderResend, "":
		return NewResendClient(cfg.Email.APIKey), nil
	default:
		return nil, ierr.NewErrorf("unknown email provider %q", cfg.Email.Provider).
			WithHint("Email provider must be resend or smtp").
			Mark(ierr.ErrValidation)
	}
}

// ResendClient sends through the Resend API
type ResendClient struct {
	client *resend.Client
}

// NewResendClient creates a Resend transport
func NewResendClient(apiKey string) *ResendClient {
	return &ResendClient{client: resend.NewClient(apiKey)}
}

func (c *ResendClient) Name() string {
	return ProviderResend
}

// Send sends a plain text email with attachments
func (c *ResendClient) Send(ctx context.Context, msg *Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
	}

	// Add reply-to if available
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	for _, a := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Filename:    a.Filename,
			ContentType: a.ContentType,
			Content:     a.Content,
		})
	}

	sent, err := c.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to send email").
			Mark(ierr.ErrUpstream)
	}

	return sent.Id, nil
}
