package types

type RunMode string

const (
	// ModeLocal is the mode for running the API server locally
	ModeLocal RunMode = "local"
	// ModeAPI is the mode for running just the API server
	ModeAPI RunMode = "api"
	// ModeAWSLambdaAPI is the mode for serving the API through AWS Lambda and API Gateway
	ModeAWSLambdaAPI RunMode = "aws_lambda_api"
	// ModeAWSLambdaScheduled is the mode for running the mail pipeline on an EventBridge schedule
	ModeAWSLambdaScheduled RunMode = "aws_lambda_scheduled"
)

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
)
