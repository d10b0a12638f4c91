package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/flexprice/costinvoice/internal/api/dto"
	"github.com/flexprice/costinvoice/internal/config"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/sentry"
	"github.com/flexprice/costinvoice/internal/service"
	"github.com/flexprice/costinvoice/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mailOnlyService records Mail calls. The scheduled handler never uses the
// other pipeline operations.
type mailOnlyService struct {
	service.InvoiceService
	mock.Mock
}

func (m *mailOnlyService) Mail(ctx context.Context, req dto.GenerateInvoiceRequest, to string) (*service.MailResult, error) {
	args := m.Called(ctx, req, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MailResult), args.Error(1)
}

func newHandler(svc service.InvoiceService) *InvoiceHandler {
	log := logger.NewNopLogger()
	return NewInvoiceHandler(svc, sentry.NewSentryService(config.GetDefaultConfig(), log), log)
}

func TestHandleScheduledEvent(t *testing.T) {
	event := events.CloudWatchEvent{
		ID:         "evt-1",
		Source:     "aws.events",
		DetailType: "Scheduled Event",
		Time:       time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
	}

	t.Run("mails with configured defaults", func(t *testing.T) {
		svc := new(mailOnlyService)
		svc.On("Mail",
			mock.MatchedBy(func(ctx context.Context) bool { return types.GetRequestID(ctx) == "evt-1" }),
			dto.GenerateInvoiceRequest{},
			"",
		).Return(&service.MailResult{InvoiceNumber: "inv_1", Recipient: "client@example.com", MessageID: "msg_1"}, nil)

		require.NoError(t, newHandler(svc).HandleScheduledEvent(context.Background(), event))
		svc.AssertExpectations(t)
	})

	t.Run("generates a request id without event id", func(t *testing.T) {
		svc := new(mailOnlyService)
		svc.On("Mail",
			mock.MatchedBy(func(ctx context.Context) bool { return types.GetRequestID(ctx) != "" }),
			mock.Anything,
			mock.Anything,
		).Return(&service.MailResult{}, nil)

		require.NoError(t, newHandler(svc).HandleScheduledEvent(context.Background(), events.CloudWatchEvent{}))
		svc.AssertExpectations(t)
	})

	t.Run("returns pipeline failure", func(t *testing.T) {
		boom := errors.New("cost explorer unavailable")
		svc := new(mailOnlyService)
		svc.On("Mail", mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		err := newHandler(svc).HandleScheduledEvent(context.Background(), event)
		assert.ErrorIs(t, err, boom)
	})
}
