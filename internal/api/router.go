package api

import (
	v1 "github.com/flexprice/costinvoice/internal/api/v1"
	"github.com/flexprice/costinvoice/internal/config"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/rest/middleware"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health  *v1.HealthHandler
	Invoice *v1.InvoiceHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.RequestLogger(logger),
		middleware.SentryMiddleware(cfg),
		middleware.SentryRequestTags,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)
	if m != nil {
		router.GET(cfg.Metrics.Path, gin.WrapH(m.Handler()))
	}

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoice := router.Group("/invoice")
	{
		invoice.GET("", handlers.Invoice.GetInvoice)
		invoice.GET("/pdf", handlers.Invoice.GetInvoicePDF)
		invoice.POST("/mail", handlers.Invoice.MailInvoice)
	}
}
