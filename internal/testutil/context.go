package testutil

import (
	"context"

	"github.com/flexprice/costinvoice/internal/types"
)

// SetupContext returns a background context carrying a request id
func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
