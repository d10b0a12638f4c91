package cron

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/flexprice/costinvoice/internal/api/dto"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/sentry"
	"github.com/flexprice/costinvoice/internal/service"
	"github.com/flexprice/costinvoice/internal/types"
)

// InvoiceHandler mails the previous month's invoice on a schedule
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	sentry         *sentry.Service
	logger         *logger.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	invoiceService service.InvoiceService,
	sentry *sentry.Service,
	logger *logger.Logger,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		sentry:         sentry,
		logger:         logger,
	}
}

// HandleScheduledEvent runs the whole pipeline with the configured
// defaults and mails the PDF to the configured recipient. The event id is
// used as request id so log lines can be traced back to the trigger.
func (h *InvoiceHandler) HandleScheduledEvent(ctx context.Context, event events.CloudWatchEvent) error {
	if event.ID != "" {
		ctx = context.WithValue(ctx, types.CtxRequestID, event.ID)
	} else {
		ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	}

	tx, ctx := h.sentry.StartTransaction(ctx, "invoice.scheduled")
	defer func() {
		if tx != nil {
			tx.Finish()
		}
		h.sentry.Flush(2 * time.Second)
	}()

	h.logger.Infow("scheduled invoice run started",
		"event_id", event.ID,
		"source", event.Source,
		"scheduled_at", event.Time,
		"request_id", types.GetRequestID(ctx),
	)

	span, spanCtx := h.sentry.StartStageSpan(ctx, "mail", nil)
	result, err := h.invoiceService.Mail(spanCtx, dto.GenerateInvoiceRequest{}, "")
	sentry.Finish(span, err)
	if err != nil {
		h.logger.Errorw("scheduled invoice run failed",
			"event_id", event.ID,
			"request_id", types.GetRequestID(ctx),
			"error", err,
		)
		h.sentry.CaptureException(err)
		return err
	}

	h.logger.Infow("scheduled invoice run completed",
		"event_id", event.ID,
		"invoice_number", result.InvoiceNumber,
		"recipient", result.Recipient,
		"message_id", result.MessageID,
	)
	return nil
}
