package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/flexprice/costinvoice/internal/api"
	"github.com/flexprice/costinvoice/internal/api/cron"
	v1 "github.com/flexprice/costinvoice/internal/api/v1"
	"github.com/flexprice/costinvoice/internal/cache"
	"github.com/flexprice/costinvoice/internal/config"
	"github.com/flexprice/costinvoice/internal/costexplorer"
	"github.com/flexprice/costinvoice/internal/email"
	"github.com/flexprice/costinvoice/internal/exchangerate"
	"github.com/flexprice/costinvoice/internal/httpclient"
	"github.com/flexprice/costinvoice/internal/logger"
	"github.com/flexprice/costinvoice/internal/metrics"
	"github.com/flexprice/costinvoice/internal/pdfgen"
	"github.com/flexprice/costinvoice/internal/sentry"
	"github.com/flexprice/costinvoice/internal/service"
	"github.com/flexprice/costinvoice/internal/types"
	"github.com/flexprice/costinvoice/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			validator.NewValidator,

			config.NewConfig,

			logger.NewLogger,

			sentry.NewSentryService,

			metrics.ProvideMetrics,

			cache.Initialize,
			cache.NewRateCache,

			provideHTTPClient,

			exchangerate.NewClient,

			costexplorer.NewSDKClient,
			costexplorer.NewClient,

			pdfgen.NewHTMLRenderer,
			providePDFEngine,

			email.NewTransport,
			email.NewNotifier,
		),
	)

	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewCostReportService,
			service.NewCurrencyService,
			service.NewInvoiceService,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
			cron.NewInvoiceHandler,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			ensureOutputDir,
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

// provideHTTPClient bounds exchange-rate calls by exchange.timeout
func provideHTTPClient(cfg *config.Configuration) httpclient.Client {
	return httpclient.NewDefaultClient(httpclient.ClientConfig{
		Timeout: cfg.Exchange.Timeout,
	})
}

func providePDFEngine(cfg *config.Configuration, log *logger.Logger) (pdfgen.Engine, error) {
	return pdfgen.NewEngine(cfg.Invoice.Engine, cfg.Invoice.WkhtmltopdfPath, log)
}

func provideHandlers(
	logger *logger.Logger,
	sentryService *sentry.Service,
	invoiceService service.InvoiceService,
) api.Handlers {
	return api.Handlers{
		Health:  v1.NewHealthHandler(),
		Invoice: v1.NewInvoiceHandler(invoiceService, sentryService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger, m *metrics.Metrics) *gin.Engine {
	if cfg.Logging.Level != types.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(handlers, cfg, logger, m)
}

func ensureOutputDir(cfg *config.Configuration, log *logger.Logger) error {
	if err := os.MkdirAll(cfg.Invoice.OutputDir, 0o755); err != nil {
		log.Errorw("invoice output directory is not writable", "dir", cfg.Invoice.OutputDir, "error", err)
		return err
	}
	return nil
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	cronHandler *cron.InvoiceHandler,
	sentryService *sentry.Service,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		initSentry(sentryService, log)
		startAWSLambdaAPI(r)
	case types.ModeAWSLambdaScheduled:
		initSentry(sentryService, log)
		startAWSLambdaScheduled(cronHandler)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}

// lambda.Start blocks inside fx.Invoke, so lifecycle hooks never run in the
// lambda modes. Sentry is initialized up front instead.
func initSentry(svc *sentry.Service, log *logger.Logger) {
	if err := svc.Init(); err != nil {
		log.Errorw("continuing without sentry", "error", err)
	}
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(ginLambda.ProxyWithContext)
}

func startAWSLambdaScheduled(handler *cron.InvoiceHandler) {
	lambda.Start(handler.HandleScheduledEvent)
}
