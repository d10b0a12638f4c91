package email

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/flexprice/costinvoice/internal/config"
	ierr "github.com/flexprice/costinvoice/internal/errors"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/validator"
)

// Notifier mails rendered invoices
type Notifier interface {
	// Send mails the file at AttachmentPath as a PDF attachment. There is
	// no retry; a transport failure is returned to the caller.
	Send(ctx context.Context, req SendInvoiceRequest) (*SendInvoiceResponse, error)
}

type notifier struct {
	transport Transport
	enabled   bool
	from      string
	replyTo   string
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewNotifier creates a notifier sending through transport
func NewNotifier(transport Transport, cfg *config.Configuration, log *logger.Logger, m *metrics.Metrics) Notifier {
	return &notifier{
		transport: transport,
		enabled:   cfg.Email.Enabled,
		from:      cfg.Email.FromAddress,
		replyTo:   cfg.Email.ReplyTo,
		logger:    log,
		metrics:   m,
	}
}

func (n *notifier) Send(ctx context.Context, req SendInvoiceRequest) (*SendInvoiceResponse, error) {
	if !n.enabled {
		n.logger.Warnw("email is disabled, refusing to send invoice",
			"to", req.To,
			"subject", req.Subject,
		)
		return nil, ierr.NewError("email is disabled").
			WithHint("Email delivery is not enabled").
			Mark(ierr.ErrSystem)
	}

	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(req.AttachmentPath)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invoice file %s could not be read", filepath.Base(req.AttachmentPath)).
			Mark(ierr.ErrSystem)
	}

	msg := &Message{
		From:    n.from,
		To:      []string{req.To},
		ReplyTo: n.replyTo,
		Subject: req.Subject,
		Text:    req.Body,
		Attachments: []Attachment{{
			Filename:    attachmentFilename(req.AttachmentName),
			ContentType: ContentTypePDF,
			Content:     content,
		}},
	}

	started := time.Now()
	messageID, err := n.transport.Send(ctx, msg)
	n.metrics.EmailSent(n.transport.Name(), err)
	if err != nil {
		n.logger.Errorw("failed to send invoice email",
			"error", err,
			"provider", n.transport.Name(),
			"to", req.To,
			"subject", req.Subject,
		)
		return nil, err
	}

	n.logger.Infow("invoice email sent",
		"message_id", messageID,
		"provider", n.transport.Name(),
		"to", req.To,
		"attachment_bytes", len(content),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return &SendInvoiceResponse{
		MessageID: messageID,
		Provider:  n.transport.Name(),
	}, nil
}

// attachmentFilename appends .pdf to names without an extension so mail
// clients open the attachment with a PDF viewer.
func attachmentFilename(name string) string {
	if filepath.Ext(name) == "" {
		return name + ".pdf"
	}
	return name
}
