package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/costinvoice/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	AWS        AWSConfig        `mapstructure:"aws"`
	Billing    BillingConfig    `mapstructure:"billing" validate:"required"`
	Exchange   ExchangeConfig   `mapstructure:"exchange" validate:"required"`
	Invoice    InvoiceConfig    `mapstructure:"invoice" validate:"required"`
	Email      EmailConfig      `mapstructure:"email"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level" validate:"required"`
}

// AWSConfig selects credentials and region for the Cost Explorer client.
// An empty profile uses the default credential chain.
type AWSConfig struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// BillingConfig shapes the cost-and-usage query and the tax line
type BillingConfig struct {
	TagKey           string        `mapstructure:"tag_key" validate:"required"`
	ApplicationTag   string        `mapstructure:"application_tag" validate:"required"`
	Metric           string        `mapstructure:"metric" validate:"required"`
	Granularity      string        `mapstructure:"granularity" validate:"required,oneof=DAILY MONTHLY HOURLY"`
	GroupBy          string        `mapstructure:"group_by" validate:"required"`
	TaxRate          float64       `mapstructure:"tax_rate" validate:"gte=0,lte=1"`
	TaxCurrency      string        `mapstructure:"tax_currency" validate:"omitempty,iso4217"`
	EndDateExclusive bool          `mapstructure:"end_date_exclusive"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"required"`
}

type ExchangeConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`
}

type InvoiceConfig struct {
	Currency          string `mapstructure:"currency" validate:"required,iso4217"`
	Locale            string `mapstructure:"locale" validate:"required"`
	OutputDir         string `mapstructure:"output_dir" validate:"required"`
	TemplateDir       string `mapstructure:"template_dir"`
	Engine            string `mapstructure:"engine" validate:"required,oneof=maroto wkhtmltopdf"`
	WkhtmltopdfPath   string `mapstructure:"wkhtmltopdf_path"`
	CompanyName       string `mapstructure:"company_name" validate:"required"`
	ContactPerson     string `mapstructure:"contact_person"`
	ContactEmail      string `mapstructure:"contact_email" validate:"omitempty,email"`
	PaymentTermMonths int    `mapstructure:"payment_term_months" validate:"gte=0"`
}

type EmailConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Provider       string `mapstructure:"provider" validate:"omitempty,oneof=resend smtp"`
	APIKey         string `mapstructure:"api_key"`
	FromAddress    string `mapstructure:"from_address" validate:"omitempty,email"`
	ReplyTo        string `mapstructure:"reply_to" validate:"omitempty,email"`
	Recipient      string `mapstructure:"recipient" validate:"omitempty,email"`
	Subject        string `mapstructure:"subject"`
	Body           string `mapstructure:"body"`
	AttachmentName string `mapstructure:"attachment_name"`
	SMTPHost       string `mapstructure:"smtp_host"`
	SMTPPort       int    `mapstructure:"smtp_port"`
	SMTPUsername   string `mapstructure:"smtp_username"`
	SMTPPassword   string `mapstructure:"smtp_password"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func NewConfig() (*Configuration, error) {
	// .env is optional, real environment variables win
	_ = godotenv.Load()

	v := viper.New()

	// Modify config paths to ensure config.yaml is found
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/costinvoice")

	// Set up environment variables support
	v.SetEnvPrefix("COSTINVOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys
// that are missing from the yaml file, which is the normal case in lambda.
func setDefaults(v *viper.Viper) {
	defaults := GetDefaultConfig()

	v.SetDefault("deployment.mode", defaults.Deployment.Mode)
	v.SetDefault("server.address", defaults.Server.Address)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetDefault("aws.region", defaults.AWS.Region)
	v.SetDefault("aws.profile", defaults.AWS.Profile)

	v.SetDefault("billing.tag_key", defaults.Billing.TagKey)
	v.SetDefault("billing.application_tag", defaults.Billing.ApplicationTag)
	v.SetDefault("billing.metric", defaults.Billing.Metric)
	v.SetDefault("billing.granularity", defaults.Billing.Granularity)
	v.SetDefault("billing.group_by", defaults.Billing.GroupBy)
	v.SetDefault("billing.tax_rate", defaults.Billing.TaxRate)
	v.SetDefault("billing.tax_currency", defaults.Billing.TaxCurrency)
	v.SetDefault("billing.end_date_exclusive", defaults.Billing.EndDateExclusive)
	v.SetDefault("billing.timeout", defaults.Billing.Timeout)

	v.SetDefault("exchange.base_url", defaults.Exchange.BaseURL)
	v.SetDefault("exchange.api_key", defaults.Exchange.APIKey)
	v.SetDefault("exchange.timeout", defaults.Exchange.Timeout)

	v.SetDefault("invoice.currency", defaults.Invoice.Currency)
	v.SetDefault("invoice.locale", defaults.Invoice.Locale)
	v.SetDefault("invoice.output_dir", defaults.Invoice.OutputDir)
	v.SetDefault("invoice.template_dir", defaults.Invoice.TemplateDir)
	v.SetDefault("invoice.engine", defaults.Invoice.Engine)
	v.SetDefault("invoice.wkhtmltopdf_path", defaults.Invoice.WkhtmltopdfPath)
	v.SetDefault("invoice.company_name", defaults.Invoice.CompanyName)
	v.SetDefault("invoice.contact_person", defaults.Invoice.ContactPerson)
	v.SetDefault("invoice.contact_email", defaults.Invoice.ContactEmail)
	v.SetDefault("invoice.payment_term_months", defaults.Invoice.PaymentTermMonths)

	v.SetDefault("email.enabled", defaults.Email.Enabled)
	v.SetDefault("email.provider", defaults.Email.Provider)
	v.SetDefault("email.api_key", defaults.Email.APIKey)
	v.SetDefault("email.from_address", defaults.Email.FromAddress)
	v.SetDefault("email.reply_to", defaults.Email.ReplyTo)
	v.SetDefault("email.recipient", defaults.Email.Recipient)
	v.SetDefault("email.subject", defaults.Email.Subject)
	v.SetDefault("email.body", defaults.Email.Body)
	v.SetDefault("email.attachment_name", defaults.Email.AttachmentName)
	v.SetDefault("email.smtp_host", defaults.Email.SMTPHost)
	v.SetDefault("email.smtp_port", defaults.Email.SMTPPort)
	v.SetDefault("email.smtp_username", defaults.Email.SMTPUsername)
	v.SetDefault("email.smtp_password", defaults.Email.SMTPPassword)

	v.SetDefault("sentry.enabled", defaults.Sentry.Enabled)
	v.SetDefault("sentry.dsn", defaults.Sentry.DSN)
	v.SetDefault("sentry.environment", defaults.Sentry.Environment)
	v.SetDefault("sentry.sample_rate", defaults.Sentry.SampleRate)

	v.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	v.SetDefault("metrics.path", defaults.Metrics.Path)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Billing: BillingConfig{
			TagKey:           "application",
			ApplicationTag:   "costinvoice",
			Metric:           "AmortizedCost",
			Granularity:      "MONTHLY",
			GroupBy:          "SERVICE",
			TaxRate:          0.21,
			TaxCurrency:      "USD",
			EndDateExclusive: true,
			Timeout:          30 * time.Second,
		},
		Exchange: ExchangeConfig{
			BaseURL: "https://api.exchangeratesapi.io/latest",
			Timeout: 10 * time.Second,
		},
		Invoice: InvoiceConfig{
			Currency:          "EUR",
			Locale:            "en",
			OutputDir:         "/tmp",
			Engine:            "wkhtmltopdf",
			WkhtmltopdfPath:   "wkhtmltopdf",
			CompanyName:       "Example Client",
			PaymentTermMonths: 1,
		},
		Email: EmailConfig{
			Provider:       "resend",
			Subject:        "invoice ready",
			Body:           "invoice can be found in attachment",
			AttachmentName: "Invoice",
			SMTPPort:       587,
		},
		Sentry: SentryConfig{
			SampleRate: 1.0,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
